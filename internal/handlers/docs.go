package handlers

import (
	"encoding/json"
	"net/http"
)

// OpenAPISpec returns the OpenAPI 3.0 specification for the Matchday Analytics API
func OpenAPISpec(w http.ResponseWriter, r *http.Request) {
	paginationParams := []map[string]interface{}{
		{
			"name":        "start_date",
			"in":          "query",
			"description": "Filter by start date (YYYY-MM-DD)",
			"required":    false,
			"schema":      map[string]string{"type": "string", "format": "date"},
		},
		{
			"name":        "end_date",
			"in":          "query",
			"description": "Filter by end date (YYYY-MM-DD)",
			"required":    false,
			"schema":      map[string]string{"type": "string", "format": "date"},
		},
		{
			"name":        "page",
			"in":          "query",
			"description": "Page number (default: 1)",
			"required":    false,
			"schema":      map[string]interface{}{"type": "integer", "default": 1},
		},
		{
			"name":        "limit",
			"in":          "query",
			"description": "Records per page (default: 100)",
			"required":    false,
			"schema":      map[string]interface{}{"type": "integer", "default": 100},
		},
	}

	jsonResponse := func(description string) map[string]interface{} {
		return map[string]interface{}{
			"200": map[string]interface{}{
				"description": description,
				"content": map[string]interface{}{
					"application/json": map[string]interface{}{
						"schema": map[string]string{"type": "object"},
					},
				},
			},
		}
	}

	spec := map[string]interface{}{
		"openapi": "3.0.0",
		"info": map[string]interface{}{
			"title":       "Matchday Analytics API",
			"description": "Emergency-call volume analysis over football match weekends, with PostgreSQL-backed ingestion and on-request aggregation",
			"version":     "1.0.0",
			"contact": map[string]string{
				"name": "Matchday Analytics Team",
			},
		},
		"servers": []map[string]string{
			{"url": "http://localhost:8080", "description": "Local development server"},
		},
		"paths": map[string]interface{}{
			"/api/calls": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":     "Get call records",
					"description": "Retrieve emergency-call records with filtering and pagination",
					"parameters": append([]map[string]interface{}{
						{
							"name":        "category",
							"in":          "query",
							"description": "Filter by call category",
							"required":    false,
							"schema":      map[string]string{"type": "string"},
						},
					}, paginationParams...),
					"responses": jsonResponse("Paginated call records"),
				},
			},
			"/api/matches": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":     "Get match records",
					"description": "Retrieve football match records with filtering and pagination",
					"parameters": append([]map[string]interface{}{
						{
							"name":        "team",
							"in":          "query",
							"description": "Filter by team name",
							"required":    false,
							"schema":      map[string]string{"type": "string"},
						},
					}, paginationParams...),
					"responses": jsonResponse("Paginated match records"),
				},
			},
			"/api/analysis/weekends": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":     "Call volume per weekend",
					"description": "Per-weekend call counts over every Friday-to-Sunday window touched by a call or a match",
					"responses":   jsonResponse("Weekend report"),
				},
			},
			"/api/analysis/comparison": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":     "Match versus non-match comparison",
					"description": "Call totals, per-day averages, and the Welch t-statistic for match-weekend versus other days",
					"responses":   jsonResponse("Comparison report"),
				},
			},
			"/api/analysis/results": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":     "Call volume per match outcome",
					"description": "Call counts attributed to the outcome (win, draw, loss) of the weekend's match",
					"responses":   jsonResponse("Result breakdown"),
				},
			},
			"/api/ingest/runs": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":     "Recent ingest runs",
					"description": "Row counts and exclusions from recent CSV ingestion passes",
					"parameters": []map[string]interface{}{
						{
							"name":        "limit",
							"in":          "query",
							"description": "Maximum runs to return (default: 20)",
							"required":    false,
							"schema":      map[string]interface{}{"type": "integer", "default": 20},
						},
					},
					"responses": jsonResponse("Ingest run summaries"),
				},
			},
			"/health": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":     "Health check",
					"description": "Check if the API and its database are reachable",
					"responses": map[string]interface{}{
						"200": map[string]interface{}{
							"description": "API is healthy",
							"content": map[string]interface{}{
								"application/json": map[string]interface{}{
									"schema": map[string]interface{}{
										"type": "object",
										"properties": map[string]interface{}{
											"status": map[string]string{"type": "string"},
										},
									},
								},
							},
						},
					},
				},
			},
			"/metrics": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":     "Prometheus metrics",
					"description": "Prometheus metrics endpoint for monitoring",
					"responses": map[string]interface{}{
						"200": map[string]interface{}{
							"description": "Prometheus metrics in text format",
							"content": map[string]interface{}{
								"text/plain": map[string]interface{}{
									"schema": map[string]string{"type": "string"},
								},
							},
						},
					},
				},
			},
		},
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(spec)
}
