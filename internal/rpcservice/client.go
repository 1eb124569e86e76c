package rpcservice

import (
	"context"
	"fmt"

	"github.com/jhump/protoreflect/dynamic"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/levelrow/typeinfer/internal/ir"
)

// Result is the decoded InferResponse: either a closed scheme and its
// elaborated term, or a diagnostic the server could not resolve.
type Result struct {
	Scheme         string
	ElaboratedJSON string
	ErrorKind      string
	ErrorMessage   string
}

// Client dials a Server and invokes Infer via a dynamic.Message built
// from the embedded schema, the same technique the teacher's
// grpcInvoke builtin uses against an operator-supplied .proto.
type Client struct {
	conn *grpc.ClientConn
}

// Dial opens a connection to a Server at target ("host:port").
func Dial(target string) (*Client, error) {
	conn, err := grpc.NewClient(target, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("rpcservice: dial %s: %w", target, err)
	}
	return &Client{conn: conn}, nil
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Infer submits term for inference and returns the server's response.
func (c *Client) Infer(ctx context.Context, term ir.Term) (Result, error) {
	sd, err := serviceDescriptor()
	if err != nil {
		return Result{}, err
	}
	md := sd.FindMethodByName("Infer")
	if md == nil {
		return Result{}, fmt.Errorf("rpcservice: method Infer missing from embedded schema")
	}

	termJSON, err := encodeRequestTerm(term)
	if err != nil {
		return Result{}, err
	}

	reqMsg := dynamic.NewMessage(md.GetInputType())
	if err := reqMsg.TrySetFieldByName("term_json", string(termJSON)); err != nil {
		return Result{}, err
	}
	respMsg := dynamic.NewMessage(md.GetOutputType())

	methodPath := "/" + sd.GetFullyQualifiedName() + "/Infer"
	if err := c.conn.Invoke(ctx, methodPath, reqMsg, respMsg); err != nil {
		return Result{}, fmt.Errorf("rpcservice: Infer RPC: %w", err)
	}

	scheme, _ := respMsg.TryGetFieldByName("scheme")
	elaborated, _ := respMsg.TryGetFieldByName("elaborated_json")
	errKind, _ := respMsg.TryGetFieldByName("error_kind")
	errMsg, _ := respMsg.TryGetFieldByName("error_message")

	return Result{
		Scheme:         toStringField(scheme),
		ElaboratedJSON: toStringField(elaborated),
		ErrorKind:      toStringField(errKind),
		ErrorMessage:   toStringField(errMsg),
	}, nil
}

func toStringField(v any) string {
	s, _ := v.(string)
	return s
}

// encodeRequestTerm is encodeTerm restricted to the input-only node
// variants a client may legally submit (see wireTerm's doc comment).
func encodeRequestTerm(term ir.Term) ([]byte, error) {
	switch term.(type) {
	case ir.TyAbs, ir.TyApp:
		return nil, fmt.Errorf("rpcservice: %T is an elaboration-only node and cannot be submitted for inference", term)
	}
	return encodeTerm(term)
}
