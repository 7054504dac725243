package grpc

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/dmitrijs2005/gophblog/internal/common"
	"github.com/dmitrijs2005/gophblog/internal/feedrpc"
)

func postsRequest(t *testing.T) *structpb.Struct {
	t.Helper()
	req, err := feedrpc.Query{Collection: common.PostsCollection, OrderBy: common.TimestampField}.ToStruct()
	require.NoError(t, err)
	return req
}

func TestQuery_RoundTrip(t *testing.T) {
	docs := &fakeDocuments{docs: []map[string]any{
		{"text": "a", "timestamp": int64(100)},
		{"text": "b", "imageUrl": "http://img", "timestamp": int64(200)},
	}}
	client := startBufconn(t, NewGRPCServer("", nil, docs, ""))

	resp, err := client.Query(withInstallation(context.Background()), postsRequest(t))
	require.NoError(t, err)

	got := feedrpc.DecodeDocuments(resp)
	assert.Equal(t, []map[string]any{
		{"text": "a", "timestamp": float64(100)},
		{"text": "b", "imageUrl": "http://img", "timestamp": float64(200)},
	}, got)
	assert.Equal(t, feedrpc.Query{Collection: "posts", OrderBy: "timestamp"}, docs.got)
}

func TestQuery_StatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code codes.Code
	}{
		{"invalid query", fmt.Errorf("%w: bad field", common.ErrInvalidQuery), codes.InvalidArgument},
		{"unknown collection", fmt.Errorf("collection: %w", common.ErrorNotFound), codes.NotFound},
		{"deadline", context.DeadlineExceeded, codes.DeadlineExceeded},
		{"canceled", context.Canceled, codes.Canceled},
		{"internal", errors.New("pq: password authentication failed"), codes.Internal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewGRPCServer("", nil, &fakeDocuments{err: tt.err}, "")
			_, err := s.Query(context.Background(), postsRequest(t))
			assert.Equal(t, tt.code, status.Code(err))
		})
	}
}

func TestQuery_InternalErrorsAreHidden(t *testing.T) {
	s := NewGRPCServer("", nil, &fakeDocuments{err: errors.New("secret dsn")}, "")
	_, err := s.Query(context.Background(), postsRequest(t))

	st, _ := status.FromError(err)
	assert.Equal(t, "internal error", st.Message())
}

func TestQuery_MalformedRequest(t *testing.T) {
	s := NewGRPCServer("", nil, &fakeDocuments{}, "")

	req, err := structpb.NewStruct(map[string]any{"order_by": "timestamp"})
	require.NoError(t, err)

	_, err = s.Query(context.Background(), req)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestPing(t *testing.T) {
	client := startBufconn(t, NewGRPCServer("", nil, &fakeDocuments{}, "secret"))

	_, err := client.Ping(context.Background(), &emptypb.Empty{})
	assert.NoError(t, err)
}
