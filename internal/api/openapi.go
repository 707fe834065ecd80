// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Parley Contributors

package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/invopop/jsonschema"
	"github.com/samber/oops"
)

// OpenAPIPath is where the API description is served.
const OpenAPIPath = "/chat/openapi.json"

const (
	openAPIVersion = "3.1.0"
	openAPITitle   = "Parley chat API"
	apiKeyScheme   = "ApiKeyAuth"
	jsonMediaType  = "application/json"
)

type openAPIDocument struct {
	OpenAPI    string                                 `json:"openapi"`
	Info       openAPIInfo                            `json:"info"`
	Servers    []openAPIServer                        `json:"servers"`
	Paths      map[string]map[string]openAPIOperation `json:"paths"`
	Components openAPIComponents                      `json:"components"`
}

type openAPIInfo struct {
	Title   string `json:"title"`
	Version string `json:"version"`
}

type openAPIServer struct {
	URL string `json:"url"`
}

type openAPIOperation struct {
	OperationID string                     `json:"operationId"`
	Summary     string                     `json:"summary"`
	Parameters  []openAPIParameter         `json:"parameters,omitempty"`
	RequestBody *openAPIRequestBody        `json:"requestBody,omitempty"`
	Responses   map[string]openAPIResponse `json:"responses"`
	Security    []map[string][]string      `json:"security,omitempty"`
}

type openAPIParameter struct {
	Name        string             `json:"name"`
	In          string             `json:"in"`
	Description string             `json:"description,omitempty"`
	Required    bool               `json:"required"`
	Schema      *jsonschema.Schema `json:"schema"`
}

type openAPIRequestBody struct {
	Required bool                    `json:"required"`
	Content  map[string]openAPIMedia `json:"content"`
}

type openAPIResponse struct {
	Description string                  `json:"description"`
	Content     map[string]openAPIMedia `json:"content,omitempty"`
}

type openAPIMedia struct {
	Schema *jsonschema.Schema `json:"schema"`
}

type openAPIComponents struct {
	Schemas         map[string]*jsonschema.Schema    `json:"schemas"`
	SecuritySchemes map[string]openAPISecurityScheme `json:"securitySchemes"`
}

type openAPISecurityScheme struct {
	Type        string `json:"type"`
	In          string `json:"in"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// reflectSchema describes v as an inline JSON Schema without $id or $schema;
// the OpenAPI 3.1 document fixes the dialect.
func reflectSchema(v any) *jsonschema.Schema {
	r := jsonschema.Reflector{
		Anonymous:                  true,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
		AllowAdditionalProperties:  true,
	}
	schema := r.Reflect(v)
	schema.Version = ""
	return schema
}

func jsonContent(schema *jsonschema.Schema) map[string]openAPIMedia {
	return map[string]openAPIMedia{jsonMediaType: {Schema: schema}}
}

func errorResponse(status int, errSchema *jsonschema.Schema) openAPIResponse {
	return openAPIResponse{
		Description: http.StatusText(status),
		Content:     jsonContent(errSchema),
	}
}

// buildOpenAPI describes the routes registered by NewServer.
func buildOpenAPI(version string) openAPIDocument {
	login := reflectSchema(&loginRequest{})
	key := reflectSchema(&loginResponse{})
	rooms := reflectSchema(&roomList{})
	errSchema := reflectSchema(&errorBody{})

	pageNumber := &jsonschema.Schema{
		Type:    "integer",
		Minimum: json.Number("0"),
		Maximum: json.Number(strconv.FormatUint(1<<32-1, 10)),
		Default: 0,
	}

	return openAPIDocument{
		OpenAPI: openAPIVersion,
		Info:    openAPIInfo{Title: openAPITitle, Version: version},
		Servers: []openAPIServer{{URL: "/chat"}},
		Paths: map[string]map[string]openAPIOperation{
			"/login": {
				"post": {
					OperationID: "login",
					Summary:     "Exchange a username and password for an API key",
					RequestBody: &openAPIRequestBody{Required: true, Content: jsonContent(login)},
					Responses: map[string]openAPIResponse{
						"200": {Description: "API key issued", Content: jsonContent(key)},
						"400": errorResponse(http.StatusBadRequest, errSchema),
						"401": errorResponse(http.StatusUnauthorized, errSchema),
						"500": errorResponse(http.StatusInternalServerError, errSchema),
					},
				},
			},
			"/rooms": {
				"get": {
					OperationID: "rooms",
					Summary:     "List rooms for the calling user",
					Parameters: []openAPIParameter{{
						Name:        "pn",
						In:          "query",
						Description: "Page number",
						Schema:      pageNumber,
					}},
					Responses: map[string]openAPIResponse{
						"200": {Description: "Room list", Content: jsonContent(rooms)},
						"400": errorResponse(http.StatusBadRequest, errSchema),
						"401": errorResponse(http.StatusUnauthorized, errSchema),
						"500": errorResponse(http.StatusInternalServerError, errSchema),
					},
					Security: []map[string][]string{{apiKeyScheme: {}}},
				},
			},
		},
		Components: openAPIComponents{
			Schemas: map[string]*jsonschema.Schema{
				"LoginRequest":  login,
				"LoginResponse": key,
				"RoomList":      rooms,
				"Error":         errSchema,
			},
			SecuritySchemes: map[string]openAPISecurityScheme{
				apiKeyScheme: {
					Type:        "apiKey",
					In:          "header",
					Name:        headerAPIKey,
					Description: "Token returned by POST /login",
				},
			},
		},
	}
}

// marshalOpenAPI renders the document once for every later request.
func marshalOpenAPI(version string) ([]byte, error) {
	data, err := json.MarshalIndent(buildOpenAPI(version), "", "  ")
	if err != nil {
		return nil, oops.Code("API_OPENAPI_FAILED").Wrap(err)
	}
	return data, nil
}

func (s *Server) handleOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", jsonMediaType)
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck // client may have disconnected
	w.Write(s.openAPI)
}
