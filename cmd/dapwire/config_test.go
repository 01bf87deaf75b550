package main

import (
	"encoding/json"
	"testing"

	"github.com/naoina/toml"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"
	"gotest.tools/assert"
)

func Test_ParseToml(t *testing.T) {
	raw := []byte(`
listen_addr = "127.0.0.1:4712"
chunk_size = 4096
max_header_bytes = 65536
log_file = "/tmp/dapwire.log"
`)

	c := config{}
	err := toml.Unmarshal(raw, &c)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:4712", c.ListenAddr)
	assert.Equal(t, 4096, c.ChunkSize)
	assert.Equal(t, 65536, c.MaxHeaderBytes)
	assert.Equal(t, "/tmp/dapwire.log", c.LogFile)
}

func Test_ParseYaml(t *testing.T) {
	raw := `---
listen_addr: 127.0.0.1:4712
chunk_size: 4096
max_header_bytes: 65536
`

	c := config{}
	err := yaml.Unmarshal([]byte(raw), &c)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:4712", c.ListenAddr)
	assert.Equal(t, 4096, c.ChunkSize)
}

func Test_ParseJson(t *testing.T) {
	raw := []byte(`{"listen_addr": "0.0.0.0:9000", "chunk_size": 512}`)

	c := config{}
	err := json.Unmarshal(raw, &c)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9000", c.ListenAddr)
	assert.Equal(t, 512, c.ChunkSize)
}

func Test_ConfigDefaults(t *testing.T) {
	c := config{}
	require.NoError(t, c.init())

	assert.Equal(t, defaultListenAddr, c.ListenAddr)
	assert.Equal(t, 0, c.ChunkSize) // zero means "use codec default"
}

func Test_ConfigRejectsNegativeSizes(t *testing.T) {
	c := config{ChunkSize: -1}
	require.Error(t, c.init())

	c = config{MaxHeaderBytes: -10}
	require.Error(t, c.init())
}

func Test_SessionOptions(t *testing.T) {
	c := config{}
	require.NoError(t, c.init())
	assert.Equal(t, 0, len(c.sessionOptions()))

	c = config{ChunkSize: 4096, MaxHeaderBytes: 65536}
	require.NoError(t, c.init())
	assert.Equal(t, 2, len(c.sessionOptions()))
}
