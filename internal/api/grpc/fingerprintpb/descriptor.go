package fingerprintpb

import (
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
	_ "google.golang.org/protobuf/types/known/emptypb"
	_ "google.golang.org/protobuf/types/known/structpb"
	_ "google.golang.org/protobuf/types/known/wrapperspb"
)

// FileName is the virtual .proto file the service is registered under, so
// server reflection can describe it.
const FileName = "fingerprint/v1/fingerprint.proto"

const (
	typeEmpty     = ".google.protobuf.Empty"
	typeStruct    = ".google.protobuf.Struct"
	typeListValue = ".google.protobuf.ListValue"
	typeString    = ".google.protobuf.StringValue"
	typeBytes     = ".google.protobuf.BytesValue"
)

func method(name, in, out string, serverStreaming bool) *descriptorpb.MethodDescriptorProto {
	m := &descriptorpb.MethodDescriptorProto{
		Name:       proto.String(name),
		InputType:  proto.String(in),
		OutputType: proto.String(out),
	}
	if serverStreaming {
		m.ServerStreaming = proto.Bool(true)
	}
	return m
}

func fileDescriptorProto() *descriptorpb.FileDescriptorProto {
	return &descriptorpb.FileDescriptorProto{
		Name:    proto.String(FileName),
		Package: proto.String("fingerprint.v1"),
		Dependency: []string{
			"google/protobuf/empty.proto",
			"google/protobuf/struct.proto",
			"google/protobuf/wrappers.proto",
		},
		Syntax: proto.String("proto3"),
		Options: &descriptorpb.FileOptions{
			GoPackage: proto.String("github.com/dtroode/fingerprint-server/internal/api/grpc/fingerprintpb"),
		},
		Service: []*descriptorpb.ServiceDescriptorProto{{
			Name: proto.String("Fingerprint"),
			Method: []*descriptorpb.MethodDescriptorProto{
				method("OpenDevice", typeEmpty, typeStruct, false),
				method("CloseDevice", typeEmpty, typeEmpty, false),
				method("DeviceStatus", typeEmpty, typeStruct, false),
				method("Verify", typeString, typeStruct, false),
				method("Enroll", typeString, typeStruct, false),
				method("CheckDuplicate", typeBytes, typeStruct, false),
				method("ListEnrollments", typeEmpty, typeListValue, false),
				method("Subscribe", typeEmpty, typeStruct, true),
			},
		}},
	}
}

// File is the descriptor of FileName.
var File protoreflect.FileDescriptor

func init() {
	fd, err := protodesc.NewFile(fileDescriptorProto(), protoregistry.GlobalFiles)
	if err != nil {
		panic(fmt.Sprintf("fingerprintpb: invalid service descriptor: %v", err))
	}
	if err := protoregistry.GlobalFiles.RegisterFile(fd); err != nil {
		panic(fmt.Sprintf("fingerprintpb: failed to register %s: %v", FileName, err))
	}
	File = fd
}
