package web

import (
	"context"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

// Context carries the gin context plus the request context the
// repositories receive. Middleware replaces Ctx to attach claims.
type Context struct {
	*gin.Context

	Ctx context.Context

	paramErrors []error
	queryErrors []error
}

// BindFunc binds the JSON or form body into obj and checks that the
// listed struct fields were provided. Field lists may be passed one per
// argument or comma separated.
func (c *Context) BindFunc(obj interface{}, requiredFields ...string) error {
	if err := c.ShouldBind(obj); err != nil {
		return NewRequestError(errors.Wrap(err, "parsing request body"), http.StatusBadRequest)
	}

	v := reflect.ValueOf(obj)
	for v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	var missing []string
	for _, name := range SplitFields(requiredFields) {
		f := v.FieldByName(name)
		if !f.IsValid() {
			continue
		}
		if f.Kind() == reflect.Ptr {
			if f.IsNil() {
				missing = append(missing, name)
			}
			continue
		}
		if f.IsZero() {
			missing = append(missing, name)
		}
	}

	if len(missing) > 0 {
		return NewRequestError(errors.Errorf("required fields are missing: %s", strings.Join(missing, ", ")), http.StatusBadRequest)
	}

	return nil
}

// GetParam reads a path parameter as the requested kind. Returns the
// zero value on failure; ValidParam reports collected failures.
func (c *Context) GetParam(kind reflect.Kind, key string) interface{} {
	value := c.Param(key)

	switch kind {
	case reflect.Int:
		n, err := strconv.Atoi(value)
		if err != nil {
			c.paramErrors = append(c.paramErrors, errors.Errorf("param %q must be an integer", key))
			return 0
		}
		return n
	case reflect.String:
		return value
	}

	c.paramErrors = append(c.paramErrors, errors.Errorf("unsupported param kind for %q", key))
	return nil
}

// GetQueryFunc reads an optional query parameter as a typed pointer.
// Absent parameters yield a typed nil so callers can assign directly
// into optional filter fields.
func (c *Context) GetQueryFunc(kind reflect.Kind, key string) interface{} {
	value, ok := c.GetQuery(key)

	switch kind {
	case reflect.Int:
		if !ok || value == "" {
			return (*int)(nil)
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			c.queryErrors = append(c.queryErrors, errors.Errorf("query %q must be an integer", key))
			return (*int)(nil)
		}
		return &n
	case reflect.String:
		if !ok || value == "" {
			return (*string)(nil)
		}
		return &value
	case reflect.Bool:
		if !ok || value == "" {
			return (*bool)(nil)
		}
		b, err := strconv.ParseBool(value)
		if err != nil {
			c.queryErrors = append(c.queryErrors, errors.Errorf("query %q must be a boolean", key))
			return (*bool)(nil)
		}
		return &b
	}

	c.queryErrors = append(c.queryErrors, errors.Errorf("unsupported query kind for %q", key))
	return nil
}

// ValidParam reports the first path parameter parse failure.
func (c *Context) ValidParam() error {
	if len(c.paramErrors) == 0 {
		return nil
	}

	return NewRequestError(c.paramErrors[0], http.StatusBadRequest)
}

// ValidQuery reports the first query parameter parse failure.
func (c *Context) ValidQuery() error {
	if len(c.queryErrors) == 0 {
		return nil
	}

	return NewRequestError(c.queryErrors[0], http.StatusBadRequest)
}

// Respond writes data as JSON with the given status code.
func (c *Context) Respond(data interface{}, statusCode int) error {
	c.JSON(statusCode, data)
	return nil
}

// RespondError writes the error response. Request errors carry their
// own status and message; anything else becomes an opaque 500 and is
// returned so the app wrapper can log and report it.
func (c *Context) RespondError(err error) error {
	if webErr, ok := IsRequestError(err); ok {
		c.JSON(webErr.Status, map[string]interface{}{
			"error":  webErr.Err.Error(),
			"status": false,
		})
		return nil
	}

	c.JSON(http.StatusInternalServerError, map[string]interface{}{
		"error":  http.StatusText(http.StatusInternalServerError),
		"status": false,
	})

	return err
}
