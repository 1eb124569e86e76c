package rpcservice

import (
	"fmt"
	"sync"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/desc/protoparse"
)

// schemaSource is the embedded wire contract between this service and a
// downstream compiler: a term to infer in, a closed scheme or a
// diagnostic out. There is no .pb.go: protoSchema below is parsed at
// startup exactly like the teacher's grpcLoadProto, except the source
// comes from an in-memory map instead of a file on disk.
const schemaSource = `syntax = "proto3";

package typeinfer;

message InferRequest {
  string term_json = 1;
}

message InferResponse {
  string scheme = 1;
  string elaborated_json = 2;
  string error_kind = 3;
  string error_message = 4;
}

service TypeInference {
  rpc Infer(InferRequest) returns (InferResponse);
}
`

const schemaFileName = "typeinfer.proto"

var (
	schemaOnce sync.Once
	schemaFile *desc.FileDescriptor
	schemaErr  error
)

// protoSchema parses the embedded schema once and caches the resulting
// descriptor, mirroring the teacher's protoRegistry but scoped to this
// package's single fixed schema rather than an arbitrary set of
// operator-supplied .proto files.
func protoSchema() (*desc.FileDescriptor, error) {
	schemaOnce.Do(func() {
		parser := protoparse.Parser{
			Accessor: protoparse.FileContentsFromMap(map[string]string{
				schemaFileName: schemaSource,
			}),
		}
		fds, err := parser.ParseFiles(schemaFileName)
		if err != nil {
			schemaErr = fmt.Errorf("rpcservice: parsing embedded schema: %w", err)
			return
		}
		schemaFile = fds[0]
	})
	return schemaFile, schemaErr
}

func serviceDescriptor() (*desc.ServiceDescriptor, error) {
	fd, err := protoSchema()
	if err != nil {
		return nil, err
	}
	sd := fd.FindService("typeinfer.TypeInference")
	if sd == nil {
		return nil, fmt.Errorf("rpcservice: service typeinfer.TypeInference missing from embedded schema")
	}
	return sd, nil
}
