// Package grpc exposes the document service over gRPC.
package grpc

import (
	"context"
	"net"

	"google.golang.org/grpc"

	"github.com/dmitrijs2005/gophblog/internal/feedrpc"
	"github.com/dmitrijs2005/gophblog/internal/logging"
)

// DocumentQuerier is the service the Query handler delegates to.
type DocumentQuerier interface {
	Query(ctx context.Context, q feedrpc.Query) ([]map[string]any, error)
}

type GRPCServer struct {
	feedrpc.UnimplementedDocumentServiceServer
	address   string
	documents DocumentQuerier
	logger    logging.Logger
	jwtSecret []byte
}

// NewGRPCServer builds a server for address. An empty secretKey turns off
// access token checks.
func NewGRPCServer(a string, l logging.Logger, documents DocumentQuerier, secretKey string) *GRPCServer {
	return &GRPCServer{
		address:   a,
		logger:    logging.OrNop(l).With("module", "grpc_server"),
		documents: documents,
		jwtSecret: []byte(secretKey),
	}
}

// NewServer returns a grpc.Server with the service and interceptors
// registered.
func (s *GRPCServer) NewServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.requestLogInterceptor, s.accessTokenInterceptor))
	feedrpc.RegisterDocumentServiceServer(srv, s)
	return srv
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis and stops gracefully when ctx is done.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.NewServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String(), "auth", len(s.jwtSecret) > 0)

	if err := srv.Serve(lis); err != nil {
		return err
	}

	return nil
}
