package httpapi

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.trai.ch/knowgraph/internal/core/domain"
	"go.trai.ch/zerr"
)

// Operations accepted by POST /api/knowledge-graph.
const (
	OpRefresh   = "refresh"
	OpPostGraph = "post_graph"
	OpFullGraph = "full_graph"
)

type graphRequest struct {
	Operation    string `json:"operation" validate:"required,oneof=refresh post_graph full_graph"`
	TemplateName string `json:"template_name" validate:"required_if=Operation post_graph,max=255"`
	Depth        int    `json:"depth" validate:"omitempty,min=1"`
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func (s *Server) validateRequest(req *graphRequest) error {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return zerr.Wrap(err, domain.ErrInvalidRequest.Error())
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return zerr.Wrap(errors.New(strings.Join(msgs, "; ")), domain.ErrInvalidRequest.Error())
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()

	switch fe.Tag() {
	case "required", "required_if":
		return field + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	default:
		return field + " is invalid"
	}
}

// queryDepth reads the depth parameter; absent means 1.
func queryDepth(q url.Values) (int, error) {
	raw := q.Get("depth")
	if raw == "" {
		return 1, nil
	}

	depth, err := strconv.Atoi(raw)
	if err != nil || depth < 1 {
		return 0, zerr.With(domain.ErrInvalidDepth, "depth", raw)
	}
	return depth, nil
}

// queryRefresh reads the refresh flag; absent means false.
func queryRefresh(q url.Values) (bool, error) {
	raw := q.Get("refresh")
	if raw == "" {
		return false, nil
	}

	refresh, err := strconv.ParseBool(raw)
	if err != nil {
		return false, zerr.With(zerr.Wrap(err, domain.ErrInvalidRequest.Error()), "refresh", raw)
	}
	return refresh, nil
}
