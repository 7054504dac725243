package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophblog/internal/client/models"
	"github.com/dmitrijs2005/gophblog/internal/common"
	"github.com/dmitrijs2005/gophblog/internal/feedrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
)

type GRPCClient struct {
	endpointURL    string
	accessToken    string
	installationID string
	conn           *grpc.ClientConn
	client         feedrpc.DocumentServiceClient
}

// NewFeedClientService connects (lazily) to the DocumentService at
// endpointURL. accessToken may be empty when the server runs without auth.
func NewFeedClientService(endpointURL, accessToken, installationID string) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, accessToken: accessToken, installationID: installationID}
	if err := c.InitGRPCClient(); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient() error {
	conn, err := grpc.NewClient(s.endpointURL,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.metadataInterceptor))
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = feedrpc.NewDocumentServiceClient(conn)
	return nil
}

func withHeader(ctx context.Context, key, value string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(key, value)
	return metadata.NewOutgoingContext(ctx, md)
}

// metadataInterceptor attaches the access token and installation id to
// every call.
func (s *GRPCClient) metadataInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if s.accessToken != "" {
		ctx = withHeader(ctx, common.AccessTokenHeaderName, s.accessToken)
	}
	if s.installationID != "" {
		ctx = withHeader(ctx, common.InstallationIDHeaderName, s.installationID)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

func (s *GRPCClient) Query(ctx context.Context, q feedrpc.Query) ([]models.Document, error) {
	req, err := q.ToStruct()
	if err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}

	resp, err := s.client.Query(ctx, req)
	if err != nil {
		return nil, s.mapError(ctx, err)
	}

	raw := feedrpc.DecodeDocuments(resp)
	docs := make([]models.Document, 0, len(raw))
	for _, d := range raw {
		docs = append(docs, models.Document(d))
	}
	return docs, nil
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	if _, err := s.client.Ping(ctx, &emptypb.Empty{}); err != nil {
		return s.mapError(ctx, err)
	}
	return nil
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

// mapError translates a gRPC failure into the client error taxonomy.
// Cancellation by the caller is returned as the context error.
func (s *GRPCClient) mapError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(ctxErr, context.Canceled) {
		return ctxErr
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Canceled:
		return context.Canceled
	case codes.Unavailable, codes.DeadlineExceeded:
		return fmt.Errorf("%w: %s", common.ErrNetworkFailure, st.Message())
	case codes.Unauthenticated, codes.PermissionDenied:
		return fmt.Errorf("%w: %w", common.ErrRemoteServiceFailure, common.ErrUnauthorized)
	case codes.NotFound:
		return fmt.Errorf("%w: %w", common.ErrRemoteServiceFailure, common.ErrorNotFound)
	default:
		return fmt.Errorf("%w: %w", common.ErrRemoteServiceFailure, err)
	}
}
