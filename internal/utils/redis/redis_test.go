package redis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRedisNilConfig(t *testing.T) {
	_, err := NewRedis(nil)
	assert.Error(t, err)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "topsis:result:abc", Key("abc"))
}
