package collaborator

import (
	"net"
	"net/rpc"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	artifact string
	err      error
}

func (f *fakeBackend) Build(string) (string, error) {
	return f.artifact, f.err
}

// TestBackendPluginRoundTrip exercises the net/rpc server/client pair
// directly (bypassing go-plugin's process handshake, which needs a real
// subprocess) to confirm the wire contract itself works.
func TestBackendPluginRoundTrip(t *testing.T) {
	server := rpc.NewServer()
	require.NoError(t, server.RegisterName("Plugin", &backendRPCServer{impl: &fakeBackend{artifact: "/tmp/out.o"}}))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	go server.Accept(ln)

	conn, err := net.Dial("tcp", ln.Addr().String())
	require.NoError(t, err)
	client := rpc.NewClient(conn)
	defer client.Close()

	backendClient := &backendRPCClient{client: client}
	artifact, err := backendClient.Build("main.mamba")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/out.o", artifact)
}

func TestHandshakeConfigIsStable(t *testing.T) {
	assert.Equal(t, "MAMBA_BACKEND_PLUGIN", Handshake.MagicCookieKey)
	assert.Equal(t, "mamba", Handshake.MagicCookieValue)
}
