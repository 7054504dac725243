package feedrpc

import (
	"fmt"

	"github.com/dmitrijs2005/gophblog/internal/common"
	"google.golang.org/protobuf/types/known/structpb"
)

// Query selects a whole collection, optionally ordered ascending by one
// field. There is no filter and no limit.
type Query struct {
	Collection string
	OrderBy    string
}

// ToStruct encodes q as a request message.
func (q Query) ToStruct() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"collection": q.Collection,
		"order_by":   q.OrderBy,
	})
}

// QueryFromStruct decodes a request message. The collection is required;
// order_by may be absent or empty.
func QueryFromStruct(s *structpb.Struct) (Query, error) {
	fields := s.GetFields()

	collection := fields["collection"].GetStringValue()
	if collection == "" {
		return Query{}, fmt.Errorf("%w: collection is required", common.ErrInvalidQuery)
	}

	var q Query
	q.Collection = collection

	if v, ok := fields["order_by"]; ok {
		switch v.GetKind().(type) {
		case *structpb.Value_StringValue, *structpb.Value_NullValue:
			q.OrderBy = v.GetStringValue()
		default:
			return Query{}, fmt.Errorf("%w: order_by must be a string", common.ErrInvalidQuery)
		}
	}
	return q, nil
}

// EncodeDocuments packs documents into a ListValue of Structs.
func EncodeDocuments(docs []map[string]any) (*structpb.ListValue, error) {
	values := make([]*structpb.Value, 0, len(docs))
	for i, d := range docs {
		s, err := structpb.NewStruct(d)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		values = append(values, structpb.NewStructValue(s))
	}
	return &structpb.ListValue{Values: values}, nil
}

// DecodeDocuments unpacks a result set. Elements that are not Structs are
// skipped; numbers come back as float64.
func DecodeDocuments(list *structpb.ListValue) []map[string]any {
	docs := make([]map[string]any, 0, len(list.GetValues()))
	for _, v := range list.GetValues() {
		s := v.GetStructValue()
		if s == nil {
			continue
		}
		docs = append(docs, s.AsMap())
	}
	return docs
}
