package parser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	pkgopenapi "github.com/steveAllen0112/http-aware-forms/pkg/openapi"
)

// Parser implements pkgopenapi.Parser using kin-openapi.
type Parser struct {
	options pkgopenapi.ParserOptions
}

var _ pkgopenapi.Parser = (*Parser)(nil)

// New constructs a Parser with the given options.
func New(options pkgopenapi.ParserOptions) pkgopenapi.Parser {
	return &Parser{options: options}
}

// Operations converts a Document into a map keyed by operationId. Operations
// without an id are keyed `method:path`.
func (p *Parser) Operations(ctx context.Context, doc pkgopenapi.Document) (map[string]pkgopenapi.Operation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw := doc.Raw()
	if len(raw) == 0 {
		return nil, errors.New("openapi parser: document payload is empty")
	}

	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: p.options.AllowExternalRefs,
	}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi parser: load document: %w", err)
	}
	if p.options.Validate {
		if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return nil, fmt.Errorf("openapi parser: validate: %w", err)
		}
	}
	if spec.Paths == nil || spec.Paths.Len() == 0 {
		return nil, errors.New("openapi parser: document does not contain any paths")
	}

	base := serverURL(spec.Servers)
	operations := make(map[string]pkgopenapi.Operation)
	for path, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		for method, operation := range item.Operations() {
			if operation == nil {
				continue
			}
			op := convertOperation(strings.ToUpper(method), path, item, operation)
			op.BaseURL = base
			if operation.Servers != nil && len(*operation.Servers) > 0 {
				op.BaseURL = serverURL(*operation.Servers)
			} else if len(item.Servers) > 0 {
				op.BaseURL = serverURL(item.Servers)
			}
			if _, exists := operations[op.ID]; exists {
				return nil, fmt.Errorf("openapi parser: duplicate operation id %q", op.ID)
			}
			operations[op.ID] = op
		}
	}
	if len(operations) == 0 {
		return nil, errors.New("openapi parser: no operations extracted")
	}
	return operations, nil
}

func convertOperation(method, path string, item *openapi3.PathItem, operation *openapi3.Operation) pkgopenapi.Operation {
	id := strings.TrimSpace(operation.OperationID)
	if id == "" {
		id = strings.ToLower(method) + ":" + path
	}
	op := pkgopenapi.Operation{
		ID:          id,
		Method:      method,
		Path:        path,
		Summary:     operation.Summary,
		Description: operation.Description,
		Parameters:  mergeParameters(item.Parameters, operation.Parameters),
	}
	if method != http.MethodGet && method != http.MethodHead {
		op.Body = convertRequestBody(operation.RequestBody)
	}
	return op
}

// mergeParameters applies operation-level parameters over path-level ones
// with the same name and location, keeping declaration order.
func mergeParameters(pathLevel, opLevel openapi3.Parameters) []pkgopenapi.Parameter {
	var out []pkgopenapi.Parameter
	index := make(map[string]int)
	for _, refs := range []openapi3.Parameters{pathLevel, opLevel} {
		for _, ref := range refs {
			if ref == nil || ref.Value == nil {
				continue
			}
			param := convertParameter(ref.Value)
			key := param.In + "\x00" + strings.ToLower(param.Name)
			if at, ok := index[key]; ok {
				out[at] = param
				continue
			}
			index[key] = len(out)
			out = append(out, param)
		}
	}
	return out
}

func convertParameter(src *openapi3.Parameter) pkgopenapi.Parameter {
	param := pkgopenapi.Parameter{
		Name:        src.Name,
		In:          src.In,
		Required:    src.Required,
		Description: src.Description,
		Schema:      convertSchema(src.Schema),
	}
	if src.In == pkgopenapi.InHeader {
		param.HeaderTemplate, _ = extensionString(src.Extensions[pkgopenapi.HeaderTemplateExtension])
		param.HeaderFields = extensionStrings(src.Extensions[pkgopenapi.HeaderFieldsExtension])
		if param.HeaderTemplate != "" && len(param.HeaderFields) == 0 {
			param.HeaderFields = []string{src.Name}
		}
	}
	return param
}

func convertRequestBody(ref *openapi3.RequestBodyRef) *pkgopenapi.RequestBody {
	if ref == nil || ref.Value == nil {
		return nil
	}
	mediaTypes := make([]string, 0, len(ref.Value.Content))
	for mediaType := range ref.Value.Content {
		mediaTypes = append(mediaTypes, mediaType)
	}
	sort.Strings(mediaTypes)
	for _, preferred := range []string{"application/x-www-form-urlencoded", "multipart/form-data", "text/plain"} {
		for _, mediaType := range mediaTypes {
			enctype, ok := pkgopenapi.FormEnctype(mediaType)
			if !ok || enctype != preferred {
				continue
			}
			return &pkgopenapi.RequestBody{
				MediaType: enctype,
				Required:  ref.Value.Required,
				Schema:    convertSchema(ref.Value.Content[mediaType].Schema),
			}
		}
	}
	return nil
}

// convertSchema keeps one level of properties; nested objects have no form
// control equivalent.
func convertSchema(ref *openapi3.SchemaRef) pkgopenapi.Schema {
	out := convertScalar(ref)
	if ref == nil || ref.Value == nil || len(ref.Value.Properties) == 0 {
		return out
	}
	out.Properties = make(map[string]pkgopenapi.Schema, len(ref.Value.Properties))
	for name, property := range ref.Value.Properties {
		out.Properties[name] = convertScalar(property)
	}
	return out
}

func convertScalar(ref *openapi3.SchemaRef) pkgopenapi.Schema {
	if ref == nil || ref.Value == nil {
		return pkgopenapi.Schema{}
	}
	src := ref.Value
	out := pkgopenapi.Schema{
		Type:      firstSchemaType(src.Type),
		Format:    src.Format,
		Default:   scalarString(src.Default),
		Pattern:   src.Pattern,
		MinLength: int(src.MinLength),
		Required:  append([]string(nil), src.Required...),
	}
	if src.MaxLength != nil {
		out.MaxLength = int(*src.MaxLength)
	}
	for _, value := range src.Enum {
		out.Enum = append(out.Enum, scalarString(value))
	}
	if len(out.Required) == 0 {
		out.Required = nil
	}
	return out
}

func firstSchemaType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	for _, value := range types.Slice() {
		if value != "null" {
			return value
		}
	}
	return ""
}

func serverURL(servers openapi3.Servers) string {
	for _, server := range servers {
		if server == nil {
			continue
		}
		url := strings.TrimSpace(server.URL)
		if url == "" {
			continue
		}
		for name, variable := range server.Variables {
			if variable == nil {
				continue
			}
			url = strings.ReplaceAll(url, "{"+name+"}", variable.Default)
		}
		return url
	}
	return ""
}

func scalarString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%f", v), "0"), ".")
	default:
		return fmt.Sprint(v)
	}
}

func extensionString(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case json.RawMessage:
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			return s, true
		}
	}
	return "", false
}

func extensionStrings(value any) []string {
	switch v := value.(type) {
	case []string:
		return append([]string(nil), v...)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		var out []string
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out
	case json.RawMessage:
		var out []string
		if err := json.Unmarshal(v, &out); err == nil {
			return out
		}
	}
	return nil
}
