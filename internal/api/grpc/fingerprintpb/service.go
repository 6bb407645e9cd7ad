// Package fingerprintpb defines the fingerprint.v1.Fingerprint gRPC service
// over protobuf well-known types, in the shape protoc-gen-go-grpc emits.
package fingerprintpb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const ServiceName = "fingerprint.v1.Fingerprint"

const (
	FullMethodOpenDevice      = "/" + ServiceName + "/OpenDevice"
	FullMethodCloseDevice     = "/" + ServiceName + "/CloseDevice"
	FullMethodDeviceStatus    = "/" + ServiceName + "/DeviceStatus"
	FullMethodVerify          = "/" + ServiceName + "/Verify"
	FullMethodEnroll          = "/" + ServiceName + "/Enroll"
	FullMethodCheckDuplicate  = "/" + ServiceName + "/CheckDuplicate"
	FullMethodListEnrollments = "/" + ServiceName + "/ListEnrollments"
	FullMethodSubscribe       = "/" + ServiceName + "/Subscribe"
)

// FingerprintServer is the server API for the Fingerprint service.
type FingerprintServer interface {
	OpenDevice(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	CloseDevice(context.Context, *emptypb.Empty) (*emptypb.Empty, error)
	DeviceStatus(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	Verify(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	Enroll(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	CheckDuplicate(context.Context, *wrapperspb.BytesValue) (*structpb.Struct, error)
	ListEnrollments(context.Context, *emptypb.Empty) (*structpb.ListValue, error)
	Subscribe(*emptypb.Empty, Fingerprint_SubscribeServer) error
}

// Fingerprint_SubscribeServer is the server side of the event stream.
type Fingerprint_SubscribeServer interface {
	Send(*structpb.Struct) error
	grpc.ServerStream
}

type subscribeServer struct {
	grpc.ServerStream
}

func (x *subscribeServer) Send(m *structpb.Struct) error {
	return x.ServerStream.SendMsg(m)
}

func RegisterFingerprintServer(s grpc.ServiceRegistrar, srv FingerprintServer) {
	s.RegisterService(&Fingerprint_ServiceDesc, srv)
}

// unary builds the method handler protoc-gen-go-grpc would generate for one method.
func unary[Req, Resp any](method string, call func(FingerprintServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(FingerprintServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: "/" + ServiceName + "/" + method,
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(FingerprintServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

func subscribeHandler(srv any, stream grpc.ServerStream) error {
	m := new(emptypb.Empty)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(FingerprintServer).Subscribe(m, &subscribeServer{stream})
}

// Fingerprint_ServiceDesc is the grpc.ServiceDesc for the Fingerprint service.
var Fingerprint_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*FingerprintServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("OpenDevice", FingerprintServer.OpenDevice),
		unary("CloseDevice", FingerprintServer.CloseDevice),
		unary("DeviceStatus", FingerprintServer.DeviceStatus),
		unary("Verify", FingerprintServer.Verify),
		unary("Enroll", FingerprintServer.Enroll),
		unary("CheckDuplicate", FingerprintServer.CheckDuplicate),
		unary("ListEnrollments", FingerprintServer.ListEnrollments),
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Subscribe",
			Handler:       subscribeHandler,
			ServerStreams: true,
		},
	},
	Metadata: FileName,
}

// FingerprintClient is the client API for the Fingerprint service.
type FingerprintClient struct {
	cc grpc.ClientConnInterface
}

func NewFingerprintClient(cc grpc.ClientConnInterface) *FingerprintClient {
	return &FingerprintClient{cc: cc}
}

func (c *FingerprintClient) OpenDevice(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, FullMethodOpenDevice, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *FingerprintClient) CloseDevice(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	if err := c.cc.Invoke(ctx, FullMethodCloseDevice, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *FingerprintClient) DeviceStatus(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, FullMethodDeviceStatus, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *FingerprintClient) Verify(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, FullMethodVerify, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *FingerprintClient) Enroll(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, FullMethodEnroll, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *FingerprintClient) CheckDuplicate(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, FullMethodCheckDuplicate, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *FingerprintClient) ListEnrollments(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	out := new(structpb.ListValue)
	if err := c.cc.Invoke(ctx, FullMethodListEnrollments, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// Fingerprint_SubscribeClient is the client side of the event stream.
type Fingerprint_SubscribeClient interface {
	Recv() (*structpb.Struct, error)
	grpc.ClientStream
}

type subscribeClient struct {
	grpc.ClientStream
}

func (x *subscribeClient) Recv() (*structpb.Struct, error) {
	m := new(structpb.Struct)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (c *FingerprintClient) Subscribe(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (Fingerprint_SubscribeClient, error) {
	stream, err := c.cc.NewStream(ctx, &Fingerprint_ServiceDesc.Streams[0], FullMethodSubscribe, opts...)
	if err != nil {
		return nil, err
	}
	x := &subscribeClient{stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}
