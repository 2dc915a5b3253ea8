package common

type SuccessResponse[T any] struct {
	Message string `json:"message,omitempty"`
	Data    T      `json:"data"`
}

func NewSuccessResponse[T any](data T) *SuccessResponse[T] {
	return &SuccessResponse[T]{Data: data}
}

func NewMessageResponse[T any](message string, data T) *SuccessResponse[T] {
	return &SuccessResponse[T]{Message: message, Data: data}
}

type Pagination struct {
	Total int64 `json:"total"`
}

type SearchResponse[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// NewSearchResponse wraps a complete result set. An empty set is rendered
// as [] rather than null.
func NewSearchResponse[T any](data []T) *SearchResponse[T] {
	if data == nil {
		data = []T{}
	}
	return &SearchResponse[T]{
		Data:       data,
		Pagination: Pagination{Total: int64(len(data))},
	}
}
