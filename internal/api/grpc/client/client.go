// Package client is the typed gRPC client of the fingerprint service.
package client

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/dtroode/fingerprint-server/internal/api/grpc/fingerprintpb"
	"github.com/dtroode/fingerprint-server/internal/model"
)

// Options configures how the client reaches the daemon.
type Options struct {
	Address string
	Token   string
	TLS     bool
	// Insecure skips server certificate verification when TLS is set.
	Insecure bool
}

// Client calls the fingerprint service and converts replies to model types.
type Client struct {
	conn *grpc.ClientConn
	api  *fingerprintpb.FingerprintClient
}

// bearer attaches the operator token to every call.
type bearer struct {
	token  string
	secure bool
}

func (b bearer) GetRequestMetadata(context.Context, ...string) (map[string]string, error) {
	return map[string]string{"authorization": "Bearer " + b.token}, nil
}

func (b bearer) RequireTransportSecurity() bool {
	return b.secure
}

// New dials the daemon. No connection is made until the first call.
func New(opts Options, dialOpts ...grpc.DialOption) (*Client, error) {
	transport := insecure.NewCredentials()
	if opts.TLS {
		transport = credentials.NewClientTLSFromCert(nil, "")
		if opts.Insecure {
			transport = credentials.NewTLS(insecureTLSConfig())
		}
	}

	options := []grpc.DialOption{grpc.WithTransportCredentials(transport)}
	if opts.Token != "" {
		options = append(options, grpc.WithPerRPCCredentials(bearer{token: opts.Token, secure: opts.TLS}))
	}
	options = append(options, dialOpts...)

	conn, err := grpc.NewClient(opts.Address, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC client: %w", err)
	}

	return &Client{conn: conn, api: fingerprintpb.NewFingerprintClient(conn)}, nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) OpenDevice(ctx context.Context) (fingerprintpb.DeviceStatus, error) {
	out, err := c.api.OpenDevice(ctx, &emptypb.Empty{})
	if err != nil {
		return fingerprintpb.DeviceStatus{}, err
	}
	return fingerprintpb.DeviceStatusFromStruct(out), nil
}

func (c *Client) CloseDevice(ctx context.Context) error {
	_, err := c.api.CloseDevice(ctx, &emptypb.Empty{})
	return err
}

func (c *Client) DeviceStatus(ctx context.Context) (fingerprintpb.DeviceStatus, error) {
	out, err := c.api.DeviceStatus(ctx, &emptypb.Empty{})
	if err != nil {
		return fingerprintpb.DeviceStatus{}, err
	}
	return fingerprintpb.DeviceStatusFromStruct(out), nil
}

func (c *Client) Verify(ctx context.Context, identity string) (model.VerifyResult, error) {
	out, err := c.api.Verify(ctx, wrapperspb.String(identity))
	if err != nil {
		return model.VerifyResult{}, err
	}
	return fingerprintpb.VerifyResultFromStruct(out), nil
}

func (c *Client) Enroll(ctx context.Context, identity string) (model.EnrollResult, error) {
	out, err := c.api.Enroll(ctx, wrapperspb.String(identity))
	if err != nil {
		return model.EnrollResult{}, err
	}
	return fingerprintpb.EnrollResultFromStruct(out)
}

func (c *Client) CheckDuplicate(ctx context.Context, template model.Template) (model.DuplicateCheck, error) {
	out, err := c.api.CheckDuplicate(ctx, wrapperspb.Bytes(template))
	if err != nil {
		return model.DuplicateCheck{}, err
	}
	return fingerprintpb.DuplicateCheckFromStruct(out), nil
}

func (c *Client) ListEnrollments(ctx context.Context) ([]model.Enrollment, error) {
	out, err := c.api.ListEnrollments(ctx, &emptypb.Empty{})
	if err != nil {
		return nil, err
	}
	return fingerprintpb.EnrollmentsFromList(out)
}

// Subscribe calls fn for every event until ctx is done, fn fails or the
// server ends the stream.
func (c *Client) Subscribe(ctx context.Context, fn func(model.Event) error) error {
	stream, err := c.api.Subscribe(ctx, &emptypb.Empty{})
	if err != nil {
		return err
	}

	for {
		msg, err := stream.Recv()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}

		event, err := fingerprintpb.EventFromStruct(msg)
		if err != nil {
			return fmt.Errorf("failed to decode event: %w", err)
		}
		if err := fn(event); err != nil {
			return err
		}
	}
}

// KindOf returns the error kind the server put in front of a status message,
// or "" when err did not come from the server.
func KindOf(err error) model.ErrorKind {
	st, ok := status.FromError(err)
	if !ok || err == nil {
		return ""
	}
	kind, _, found := strings.Cut(st.Message(), ": ")
	if !found || strings.ContainsRune(kind, ' ') {
		return ""
	}
	return model.ErrorKind(kind)
}

func insecureTLSConfig() *tls.Config {
	return &tls.Config{
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: true, //nolint:gosec // opt-in for self-signed daemons
	}
}
