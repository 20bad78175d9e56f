package api

import (
	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	"github.com/emicklei/go-restful/v3"
	"github.com/go-openapi/spec"
	"github.com/povarna/generative-ai-agents/fashion-finder/internal/api/middleware"
	"github.com/povarna/generative-ai-agents/fashion-finder/internal/models"
)

const mimeHTML = "text/html"

func RegisterRoutes(container *restful.Container, handler *Handler) {
	ws := new(restful.WebService)

	ws.
		Path("/api/v1").
		Consumes(restful.MIME_JSON).
		Produces(restful.MIME_JSON)

	// Health endpoint
	ws.
		Route(ws.GET("health").
			To(handler.Health).
			Doc("Health check").
			Metadata(restfulspec.KeyOpenAPITags, []string{"health"}).
			Writes(HealthResponse{}).
			Returns(200, "OK", HealthResponse{}))

	ws.
		Route(ws.GET("/taxonomy").
			To(handler.Taxonomy).
			Doc("Category and attribute tables").
			Metadata(restfulspec.KeyOpenAPITags, []string{"taxonomy"}).
			Writes(TaxonomyResponse{}).
			Returns(200, "OK", TaxonomyResponse{}))

	ws.
		Route(ws.POST("/keyword").
			To(handler.Keyword).
			Doc("Decode classifier scores into a search keyword").
			Metadata(restfulspec.KeyOpenAPITags, []string{"search"}).
			Reads(models.PredictionScores{}).
			Writes(models.KeywordResult{}).
			Returns(200, "OK", models.KeywordResult{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(422, "Invalid Model Output", middleware.ErrorResponse{}).
			Returns(500, "Internal Server Error", middleware.ErrorResponse{}))

	ws.
		Route(ws.POST("/search").
			To(handler.Search).
			Produces(restful.MIME_JSON, mimeHTML).
			Doc("Find products matching classifier scores").
			Metadata(restfulspec.KeyOpenAPITags, []string{"search"}).
			Param(ws.QueryParameter("format", "Response format: json (default) or html").DataType("string").Required(false)).
			Reads(models.SearchRequest{}).
			Writes(models.SearchResult{}).
			Returns(200, "OK", models.SearchResult{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(422, "Invalid Model Output", middleware.ErrorResponse{}).
			Returns(500, "Internal Server Error", middleware.ErrorResponse{}))

	ws.
		Route(ws.POST("/search/image").
			To(handler.SearchImage).
			Consumes("multipart/form-data").
			Produces(restful.MIME_JSON, mimeHTML).
			Doc("Classify an uploaded image and find matching products").
			Metadata(restfulspec.KeyOpenAPITags, []string{"search"}).
			Param(ws.MultiPartFormParameter("image", "Image file (png, jpg, jpeg, gif)").DataType("file")).
			Param(ws.QueryParameter("format", "Response format: json (default) or html").DataType("string").Required(false)).
			Param(ws.QueryParameter("request_id", "Caller supplied request id").DataType("string").Required(false)).
			Writes(models.SearchResult{}).
			Returns(200, "OK", models.SearchResult{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(422, "Invalid Model Output", middleware.ErrorResponse{}).
			Returns(413, "Upload Too Large", middleware.ErrorResponse{}).
			Returns(502, "Classifier Unavailable", middleware.ErrorResponse{}).
			Returns(503, "Classifier Not Configured", middleware.ErrorResponse{}).
			Returns(500, "Internal Server Error", middleware.ErrorResponse{}))

	container.Add(ws)
}

func enrichSwaggerObject(swo *spec.Swagger) {
	swo.Info = &spec.Info{
		InfoProps: spec.InfoProps{
			Title:       "Fashion Finder API",
			Description: "Turns clothing classifier output into ranked product matches",
			Version:     "1.0.0",
		},
	}
	swo.Tags = []spec.Tag{
		{TagProps: spec.TagProps{Name: "health", Description: "Health checks"}},
		{TagProps: spec.TagProps{Name: "taxonomy", Description: "Label tables"}},
		{TagProps: spec.TagProps{Name: "search", Description: "Keyword and product search"}},
	}
}

// RegisterOpenAPI serves the OpenAPI document of every registered web
// service at /api/v1/openapi.json. Call it after RegisterRoutes.
func RegisterOpenAPI(container *restful.Container) {
	config := restfulspec.Config{
		WebServices:                   container.RegisteredWebServices(),
		APIPath:                       "/api/v1/openapi.json",
		PostBuildSwaggerObjectHandler: enrichSwaggerObject,
	}

	container.Add(restfulspec.NewOpenAPIService(config))
}
