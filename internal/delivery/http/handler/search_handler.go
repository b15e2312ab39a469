package handler

import (
	"errors"

	"chemjobs/internal/delivery/http/dto"
	"chemjobs/internal/delivery/http/middleware"
	"chemjobs/internal/domain/job"
	"chemjobs/internal/pkg/response"
	"chemjobs/internal/usecase"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

type SearchHandler struct {
	uc       usecase.SearchUsecase
	validate *validator.Validate
}

func NewSearchHandler(uc usecase.SearchUsecase) *SearchHandler {
	return &SearchHandler{uc: uc, validate: validator.New()}
}

func (h *SearchHandler) HandleSearch(c fiber.Ctx) error {
	var req dto.SearchRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request body", nil, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, validationMessage(err), nil, err)
	}

	rid, _ := c.Locals(middleware.RequestIDKey).(string)

	result, err := h.uc.SearchJobs(c.Context(), job.Query{
		Profession:     req.Profession,
		Specialization: req.Specialization,
		Location:       req.Location,
		Companies:      req.Companies,
	}, rid)
	if err != nil {
		return mapSearchError(err)
	}

	jobs := make([]dto.JobItem, 0, len(result.Jobs))
	for _, j := range result.Jobs {
		jobs = append(jobs, dto.JobItem{
			Title:      j.Title,
			Company:    j.Company,
			Location:   j.Location,
			Type:       j.Type,
			Link:       j.Link,
			MatchScore: j.MatchScore,
			Reasoning:  j.Reasoning,
		})
	}
	citations := result.Citations
	if citations == nil {
		citations = []string{}
	}

	return response.JSON(c, fiber.StatusOK, dto.SearchResponse{
		Jobs:      jobs,
		Citations: citations,
		Count:     len(jobs),
		Query: dto.QueryEcho{
			Profession:     req.Profession,
			Specialization: req.Specialization,
			Location:       req.Location,
		},
		Warning:   result.Warning,
		RequestID: rid,
	})
}

const (
	msgMissingFields      = "Missing required fields: profession, specialization, and location are required"
	msgTooManyCompanies   = "Too many companies selected. Please select a maximum of 3 companies"
	msgDuplicateCompanies = "Duplicate companies selected. Please select distinct companies"
)

// validationMessage picks the client-facing message for a failed request
// validation; company-list violations get their own wording.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if fe.Field() != "Companies" {
				continue
			}
			switch fe.Tag() {
			case "max":
				return msgTooManyCompanies
			case "unique":
				return msgDuplicateCompanies
			}
		}
	}
	return msgMissingFields
}

func mapSearchError(err error) error {
	switch {
	case errors.Is(err, usecase.ErrTooManyCompanies):
		return middleware.NewAppError(fiber.StatusBadRequest, msgTooManyCompanies, nil, err)
	case errors.Is(err, usecase.ErrDuplicateCompanies):
		return middleware.NewAppError(fiber.StatusBadRequest, msgDuplicateCompanies, nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, msgMissingFields, nil, err)
	case errors.Is(err, usecase.ErrUpstreamTimeout):
		return middleware.NewAppError(fiber.StatusGatewayTimeout,
			"Search provider timed out", nil, err)
	case errors.Is(err, usecase.ErrUpstreamUnavailable):
		return middleware.NewAppError(fiber.StatusServiceUnavailable,
			"Search provider unavailable", nil, err)
	case errors.Is(err, usecase.ErrUpstream):
		return middleware.NewAppError(fiber.StatusBadGateway,
			"Search provider request failed", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, "", nil, err)
	}
}
