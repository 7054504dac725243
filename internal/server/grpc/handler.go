package grpc

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/dmitrijs2005/gophblog/internal/common"
	"github.com/dmitrijs2005/gophblog/internal/feedrpc"
)

func (s *GRPCServer) Query(ctx context.Context, req *structpb.Struct) (*structpb.ListValue, error) {
	q, err := feedrpc.QueryFromStruct(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	docs, err := s.documents.Query(ctx, q)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	list, err := feedrpc.EncodeDocuments(docs)
	if err != nil {
		s.logger.Error(ctx, "encode documents", "error", err)
		return nil, status.Error(codes.Internal, "internal error")
	}

	subject, _ := subjectFromContext(ctx)
	s.logger.Debug(ctx, "query served", "collection", q.Collection, "count", len(docs), "subject", subject)
	return list, nil
}

func (s *GRPCServer) Ping(ctx context.Context, req *emptypb.Empty) (*emptypb.Empty, error) {
	return &emptypb.Empty{}, nil
}

// toStatus maps service errors to status codes; unexpected errors are
// logged and hidden behind codes.Internal.
func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, common.ErrInvalidQuery):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		s.logger.Error(ctx, "query failed", "error", err)
		return status.Error(codes.Internal, "internal error")
	}
}
