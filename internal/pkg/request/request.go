// Package request holds the parsing and validation helpers shared by the HTTP
// controllers.
package request

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/kmcc-connect/kmcc-backend/internal/pkg/apperror"
)

// Value is a JSON scalar clients may send either as a number or as a string,
// e.g. "lotId": 4 and "lotId": "4" are both accepted.
type Value string

func (v *Value) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*v = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*v = Value(strings.TrimSpace(str))
		return nil
	}
	*v = Value(s)
	return nil
}

// Present reports whether a non-zero value was supplied.
func (v Value) Present() bool {
	return v != "" && v != "0" && v != "false"
}

func (v Value) Int() (int, error) {
	return strconv.Atoi(string(v))
}

func (v Value) Uint() (uint, error) {
	n, err := strconv.ParseUint(string(v), 10, 64)
	return uint(n), err
}

func (v Value) Decimal() (decimal.Decimal, error) {
	return decimal.NewFromString(string(v))
}

// OptionalDecimal returns nil when no value was supplied.
func (v Value) OptionalDecimal() (*decimal.Decimal, error) {
	if !v.Present() {
		return nil, nil
	}
	d, err := v.Decimal()
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ParamID parses a positive integer route parameter.
func ParamID(c *fiber.Ctx, name, label string) (uint, error) {
	raw := c.Params(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, apperror.Validationf("Invalid %s ID", label)
	}
	return uint(id), nil
}

// Parse decodes the JSON body into out and validates it.
func Parse(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return apperror.Validation("Invalid request body")
	}
	return Validate(out)
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
	})
	return validate
}

// Validate runs struct validation and reports the first failing field.
func Validate(v interface{}) error {
	err := validatorInstance().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return apperror.Validation(describe(verrs[0]))
	}
	return apperror.Validation(err.Error())
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// Page is the page/limit pair used by paginated list endpoints.
type Page struct {
	Page  int
	Limit int
}

func (p Page) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Pagination reads ?page and ?limit with the given default limit.
func Pagination(c *fiber.Ctx, defaultLimit int) Page {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit := c.QueryInt("limit", defaultLimit)
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > 100 {
		limit = 100
	}
	return Page{Page: page, Limit: limit}
}

// OffsetLimit reads ?offset and ?limit.
func OffsetLimit(c *fiber.Ctx, defaultLimit int) (int, int) {
	limit := c.QueryInt("limit", defaultLimit)
	if limit < 1 || limit > 100 {
		limit = defaultLimit
	}
	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}
	return offset, limit
}
