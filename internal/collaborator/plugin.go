package collaborator

import (
	"net/rpc"

	goplugin "github.com/hashicorp/go-plugin"
)

// Handshake is the handshake both host and backend plugin binaries must
// agree on before go-plugin will complete the connection. Defined once here
// so a plugin binary and the host never drift.
var Handshake = goplugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "MAMBA_BACKEND_PLUGIN",
	MagicCookieValue: "mamba",
}

// BackendService is the contract a dynamically-loaded backend plugin
// implements: given a module's transpiled source, produce a built artifact
// path or an error.
type BackendService interface {
	Build(sourcePath string) (artifactPath string, err error)
}

// PluginMap is the set of pluggable backends go-plugin can dispense.
var PluginMap = map[string]goplugin.Plugin{
	"backend": &BackendPlugin{},
}

// BackendPlugin adapts BackendService to go-plugin's net/rpc Plugin
// interface, an alternative to BackendInvoker's subprocess model for
// backends distributed as long-lived plugin processes.
type BackendPlugin struct {
	// Impl is set on the plugin-server side only; the host side dispenses
	// a client stub instead.
	Impl BackendService
}

func (p *BackendPlugin) Server(*goplugin.MuxBroker) (interface{}, error) {
	return &backendRPCServer{impl: p.Impl}, nil
}

func (p *BackendPlugin) Client(b *goplugin.MuxBroker, c *rpc.Client) (interface{}, error) {
	return &backendRPCClient{client: c}, nil
}

// BuildArgs and BuildReply are exported because net/rpc only registers
// methods whose argument and reply types are exported.
type BuildArgs struct {
	SourcePath string
}

type BuildReply struct {
	ArtifactPath string
}

// backendRPCServer runs in the plugin process and dispatches to Impl.
type backendRPCServer struct {
	impl BackendService
}

func (s *backendRPCServer) Build(args BuildArgs, reply *BuildReply) error {
	artifact, err := s.impl.Build(args.SourcePath)
	if err != nil {
		return err
	}
	reply.ArtifactPath = artifact
	return nil
}

// backendRPCClient runs in the host process and implements BackendService
// over the RPC connection go-plugin establishes.
type backendRPCClient struct {
	client *rpc.Client
}

func (c *backendRPCClient) Build(sourcePath string) (string, error) {
	var reply BuildReply
	if err := c.client.Call("Plugin.Build", BuildArgs{SourcePath: sourcePath}, &reply); err != nil {
		return "", err
	}
	return reply.ArtifactPath, nil
}
