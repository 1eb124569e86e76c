package rpcservice

import (
	"context"
	"fmt"
	"net"
	"sync"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/dynamic"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/proto"

	"github.com/levelrow/typeinfer/internal/builtins"
	"github.com/levelrow/typeinfer/internal/diagnostics"
	"github.com/levelrow/typeinfer/internal/infer"
	"github.com/levelrow/typeinfer/internal/types"
)

// Server is the gRPC front end over internal/infer.Run. Each request
// gets its own *types.Supply: fresh-variable identity must never leak
// between unrelated inference runs, so cells are never shared across
// requests the way they would be across calls within one driver run.
type Server struct {
	builtins builtins.Table

	mu     sync.Mutex
	server *grpc.Server
}

// NewServer builds a server that resolves built-in references against
// table. Passing builtins.Default reproduces the signature set
// internal/infer ships with; a caller may pass an extended table (see
// cmd/typeinfer's -config flag) to expose additional built-ins over
// the wire.
func NewServer(table builtins.Table) (*Server, error) {
	if _, err := serviceDescriptor(); err != nil {
		return nil, err
	}
	return &Server{builtins: table}, nil
}

// Serve registers the TypeInference service and blocks accepting
// connections on addr until the listener errors or GracefulStop is
// called from another goroutine.
func (s *Server) Serve(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("rpcservice: listen %s: %w", addr, err)
	}
	return s.ServeListener(lis)
}

// ServeListener is Serve, given an already-open listener; exported
// separately so tests can serve on an in-memory or ephemeral listener.
func (s *Server) ServeListener(lis net.Listener) error {
	sd, err := serviceDescriptor()
	if err != nil {
		return err
	}

	grpcServer := grpc.NewServer()
	s.mu.Lock()
	s.server = grpcServer
	s.mu.Unlock()

	desc := &grpc.ServiceDesc{
		ServiceName: sd.GetFullyQualifiedName(),
		HandlerType: (*interface{})(nil),
		Metadata:    schemaFileName,
	}
	handler := &inferHandler{builtins: s.builtins}
	for _, method := range sd.GetMethods() {
		md := method
		desc.Methods = append(desc.Methods, grpc.MethodDesc{
			MethodName: md.GetName(),
			Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, _ grpc.UnaryServerInterceptor) (interface{}, error) {
				h := srv.(*inferHandler)
				return h.handleInfer(ctx, md.GetInputType(), md.GetOutputType(), dec)
			},
		})
	}
	grpcServer.RegisterService(desc, handler)

	return grpcServer.Serve(lis)
}

// GracefulStop drains in-flight RPCs before returning; a no-op if the
// server was never started.
func (s *Server) GracefulStop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.server != nil {
		s.server.GracefulStop()
	}
}

type inferHandler struct {
	builtins builtins.Table
}

func (h *inferHandler) handleInfer(_ context.Context, inType, outType *desc.MessageDescriptor, dec func(interface{}) error) (interface{}, error) {
	reqMsg := dynamic.NewMessage(inType)
	if err := dec(reqMsg); err != nil {
		return nil, err
	}

	respMsg := dynamic.NewMessage(outType)

	termJSON, err := reqMsg.TryGetFieldByName("term_json")
	if err != nil {
		return nil, fmt.Errorf("rpcservice: request missing term_json: %w", err)
	}
	term, err := decodeTerm([]byte(termJSON.(string)))
	if err != nil {
		_ = respMsg.TrySetFieldByName("error_kind", "E-DECODE")
		_ = respMsg.TrySetFieldByName("error_message", err.Error())
		return respMsg, nil
	}

	supply := types.NewSupply(0)
	ty, elaborated, err := infer.Run(supply, h.builtins, term)
	if err != nil {
		if de, ok := err.(*diagnostics.Error); ok {
			_ = respMsg.TrySetFieldByName("error_kind", de.Kind.String())
			_ = respMsg.TrySetFieldByName("error_message", de.Error())
		} else {
			_ = respMsg.TrySetFieldByName("error_kind", "E-UNKNOWN")
			_ = respMsg.TrySetFieldByName("error_message", err.Error())
		}
		return respMsg, nil
	}

	elaboratedJSON, err := encodeTerm(elaborated)
	if err != nil {
		return nil, fmt.Errorf("rpcservice: encoding elaborated term: %w", err)
	}

	_ = respMsg.TrySetFieldByName("scheme", types.String(ty))
	_ = respMsg.TrySetFieldByName("elaborated_json", string(elaboratedJSON))
	return respMsg, nil
}

// var _ documents that dynamic.Message satisfies proto.Message, the
// interface grpc's wire codec actually marshals against — there is no
// generated .pb.go type here for the compiler to check this against
// otherwise.
var _ proto.Message = (*dynamic.Message)(nil)
