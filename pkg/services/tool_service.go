package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"reflect"
	"strconv"

	"github.com/samber/lo"
	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/dskvich/ollama-webui/pkg/domain"
)

var (
	contextType = reflect.TypeOf((*context.Context)(nil)).Elem()
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
)

// ToolFunction is a tool exposed to the model. Function returns a func taking
// a context.Context followed by one argument per required parameter, in the
// order of Parameters().Required, and returning (T, error).
type ToolFunction interface {
	Name() string
	Description() string
	Parameters() jsonschema.Definition
	Function() any
}

type toolService struct {
	tools []domain.Tool
}

func NewToolService(toolFunctions []ToolFunction) (*toolService, error) {
	tools := make([]domain.Tool, 0, len(toolFunctions))
	for _, t := range toolFunctions {
		if err := validateFunction(t); err != nil {
			return nil, fmt.Errorf("invalid tool function %q: %w", t.Name(), err)
		}
		if lo.ContainsBy(tools, func(e domain.Tool) bool { return e.Function.Name == t.Name() }) {
			return nil, fmt.Errorf("duplicate tool function %q", t.Name())
		}

		tools = append(tools, domain.Tool{
			Type: domain.ToolTypeFunction,
			Function: &domain.Function{
				Name:        t.Name(),
				Description: t.Description(),
				Parameters:  t.Parameters(),
				Function:    t.Function(),
			},
		})
	}

	return &toolService{tools: tools}, nil
}

func (ts *toolService) Tools() []domain.Tool {
	return ts.tools
}

// Specification returns the registered tool with the given name.
func (ts *toolService) Specification(name string) (domain.Tool, error) {
	tool, ok := lo.Find(ts.tools, func(t domain.Tool) bool { return t.Function.Name == name })
	if !ok {
		return domain.Tool{}, fmt.Errorf("%w: %q", domain.ErrToolNotFound, name)
	}
	return tool, nil
}

// InvokeFunction calls a specific tool by name with the provided arguments.
func (ts *toolService) InvokeFunction(ctx context.Context, name string, args map[string]any) (any, error) {
	slog.DebugContext(ctx, "Invoking function", "name", name, "args", args)

	tool, err := ts.Specification(name)
	if err != nil {
		return nil, err
	}

	function := tool.Function
	if err := validateArguments(function.Parameters, args); err != nil {
		return nil, fmt.Errorf("invalid arguments for function %q: %w", name, err)
	}

	handler := reflect.ValueOf(function.Function)
	handlerType := handler.Type()

	funcArgs := []reflect.Value{reflect.ValueOf(ctx)}
	for i, param := range function.Parameters.Required {
		v, err := convertArgument(args[param], handlerType.In(i+1))
		if err != nil {
			return nil, fmt.Errorf("%w: parameter %q: %v", domain.ErrInvalidToolArguments, param, err)
		}
		funcArgs = append(funcArgs, v)
	}

	results := handler.Call(funcArgs)

	var callErr error
	if !results[1].IsNil() {
		callErr = results[1].Interface().(error)
	}
	result := results[0].Interface()

	slog.DebugContext(ctx, "Function executed", "name", name, "result", result, "err", callErr)
	return result, callErr
}

func validateFunction(t ToolFunction) error {
	if t.Name() == "" {
		return errors.New("function name cannot be empty")
	}
	if t.Function() == nil {
		return errors.New("function handler cannot be nil")
	}

	fnType := reflect.TypeOf(t.Function())
	if fnType.Kind() != reflect.Func {
		return errors.New("function handler must be callable")
	}

	required := t.Parameters().Required
	if fnType.NumIn() != len(required)+1 || fnType.In(0) != contextType {
		return fmt.Errorf("handler must take (context.Context, %d required parameters)", len(required))
	}
	if fnType.NumOut() != 2 || fnType.Out(1) != errorType {
		return errors.New("handler must return (T, error)")
	}
	for _, param := range required {
		if _, ok := t.Parameters().Properties[param]; !ok {
			return fmt.Errorf("required parameter %q is not described", param)
		}
	}
	return nil
}

func validateArguments(schema jsonschema.Definition, args map[string]any) error {
	for _, paramName := range schema.Required {
		if _, ok := args[paramName]; !ok {
			return fmt.Errorf("%w: missing required parameter %q", domain.ErrInvalidToolArguments, paramName)
		}
	}

	for paramName, value := range args {
		paramDef, ok := schema.Properties[paramName]
		if !ok {
			continue
		}
		if !isValidType(value, paramDef.Type) {
			return fmt.Errorf("%w: parameter %q has invalid type: expected %q, got %T",
				domain.ErrInvalidToolArguments, paramName, paramDef.Type, value)
		}
		if len(paramDef.Enum) > 0 && !lo.Contains(paramDef.Enum, fmt.Sprint(value)) {
			return fmt.Errorf("%w: parameter %q must be one of %v, got %v",
				domain.ErrInvalidToolArguments, paramName, paramDef.Enum, value)
		}
	}
	return nil
}

func isValidType(value any, expectedType jsonschema.DataType) bool {
	switch expectedType {
	case jsonschema.String:
		_, ok := value.(string)
		return ok
	case jsonschema.Number:
		_, ok := value.(float64)
		return ok
	case jsonschema.Integer:
		switch v := value.(type) {
		case int, int64:
			return true
		case float64:
			return v == math.Trunc(v)
		}
		return false
	case jsonschema.Boolean:
		_, ok := value.(bool)
		return ok
	case jsonschema.Array:
		_, ok := value.([]any)
		return ok
	case jsonschema.Object:
		_, ok := value.(map[string]any)
		return ok
	case "":
		return true
	default:
		return false
	}
}

// convertArgument adapts a decoded JSON value to the handler's parameter type.
func convertArgument(value any, target reflect.Type) (reflect.Value, error) {
	if value == nil {
		return reflect.Zero(target), nil
	}

	v := reflect.ValueOf(value)
	if v.Type().AssignableTo(target) {
		return v, nil
	}

	switch target.Kind() {
	case reflect.String:
		return reflect.ValueOf(fmt.Sprint(value)).Convert(target), nil
	case reflect.Int, reflect.Int32, reflect.Int64:
		switch n := value.(type) {
		case float64:
			return reflect.ValueOf(int64(n)).Convert(target), nil
		case string:
			i, err := strconv.ParseInt(n, 10, 64)
			if err != nil {
				return reflect.Value{}, err
			}
			return reflect.ValueOf(i).Convert(target), nil
		}
	case reflect.Float32, reflect.Float64:
		if s, ok := value.(string); ok {
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return reflect.Value{}, err
			}
			return reflect.ValueOf(f).Convert(target), nil
		}
	}

	if v.Type().ConvertibleTo(target) && v.Kind() != reflect.String {
		return v.Convert(target), nil
	}
	return reflect.Value{}, fmt.Errorf("cannot use %T as %s", value, target)
}
