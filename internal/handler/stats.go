// Package handler exposes the metrics engine over HTTP for the dashboard
// query layer.
package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Andr3sV/mvp-geo-saas-sub004/internal/domain"
	"github.com/Andr3sV/mvp-geo-saas-sub004/internal/logger"
	"github.com/Andr3sV/mvp-geo-saas-sub004/internal/stats"
)

// errBadProjectID is returned when the project id path segment is not a UUID.
var errBadProjectID = errors.New("invalid project id")

// StatsService is the engine surface the handlers call.
type StatsService interface {
	GetDailyStats(ctx context.Context, projectID uuid.UUID, q stats.StatsQuery) ([]domain.DailyStat, error)
	GetMentionsSummary(ctx context.Context, projectID uuid.UUID, q stats.StatsQuery) ([]domain.EntitySummary, error)
	GetBrandSentiment(ctx context.Context, projectID uuid.UUID, q stats.StatsQuery) (domain.SentimentBreakdown, error)
	GetStatsTrend(ctx context.Context, projectID uuid.UUID, current, previous stats.StatsQuery) (stats.TrendResult, error)
}

// StatsHandler handles the dashboard's stats read requests.
type StatsHandler struct {
	service StatsService
	log     logger.Logger
}

// NewStatsHandler creates a StatsHandler.
func NewStatsHandler(service StatsService, log logger.Logger) *StatsHandler {
	return &StatsHandler{service: service, log: log}
}

// dailyStatResponse is the JSON shape of one counter row.
type dailyStatResponse struct {
	StatDate          string  `json:"stat_date"`
	EntityType        string  `json:"entity_type"`
	CompetitorID      *string `json:"competitor_id,omitempty"`
	EntityName        string  `json:"entity_name"`
	MentionsCount     int     `json:"mentions_count"`
	CitationsCount    int     `json:"citations_count"`
	ResponsesAnalyzed int     `json:"responses_analyzed"`
	Platform          *string `json:"platform,omitempty"`
	Region            *string `json:"region,omitempty"`
	TopicID           *string `json:"topic_id,omitempty"`
}

// entitySummaryResponse is the JSON shape of one per-entity summary.
type entitySummaryResponse struct {
	EntityType     string  `json:"entity_type"`
	CompetitorID   *string `json:"competitor_id,omitempty"`
	EntityName     string  `json:"entity_name"`
	TotalMentions  int     `json:"total_mentions"`
	TotalCitations int     `json:"total_citations"`
	Positive       int     `json:"positive"`
	Neutral        int     `json:"neutral"`
	Negative       int     `json:"negative"`
	AvgSentiment   float64 `json:"avg_sentiment"`
}

// GetDailyStats handles GET /api/v1/projects/:projectID/stats/daily.
func (h *StatsHandler) GetDailyStats(c *gin.Context) {
	projectID, query, ok := h.parseRequest(c)
	if !ok {
		return
	}

	rows, err := h.service.GetDailyStats(c.Request.Context(), projectID, query)
	if err != nil {
		h.fail(c, projectID, "daily stats query failed", err)
		return
	}

	out := make([]dailyStatResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDailyStatResponse(row))
	}

	c.JSON(http.StatusOK, gin.H{"data": out})
}

// GetMentionsSummary handles GET /api/v1/projects/:projectID/stats/summary.
func (h *StatsHandler) GetMentionsSummary(c *gin.Context) {
	projectID, query, ok := h.parseRequest(c)
	if !ok {
		return
	}

	summaries, err := h.service.GetMentionsSummary(c.Request.Context(), projectID, query)
	if err != nil {
		h.fail(c, projectID, "mentions summary query failed", err)
		return
	}

	out := make([]entitySummaryResponse, 0, len(summaries))
	for _, summary := range summaries {
		out = append(out, toSummaryResponse(summary))
	}

	c.JSON(http.StatusOK, gin.H{"data": out})
}

// GetBrandSentiment handles GET /api/v1/projects/:projectID/stats/sentiment.
func (h *StatsHandler) GetBrandSentiment(c *gin.Context) {
	projectID, query, ok := h.parseRequest(c)
	if !ok {
		return
	}

	breakdown, err := h.service.GetBrandSentiment(c.Request.Context(), projectID, query)
	if err != nil {
		h.fail(c, projectID, "brand sentiment query failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"positive":   breakdown.Positive,
		"neutral":    breakdown.Neutral,
		"negative":   breakdown.Negative,
		"total":      breakdown.Total,
		"avg_rating": breakdown.AvgRating,
	})
}

// GetStatsTrend handles GET /api/v1/projects/:projectID/stats/trend.
// The current period comes from start/end, the comparison period from
// prev_start/prev_end.
func (h *StatsHandler) GetStatsTrend(c *gin.Context) {
	projectID, current, ok := h.parseRequest(c)
	if !ok {
		return
	}

	previous, err := parseQueryRange(c, "prev_start", "prev_end")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	previous.Filter = current.Filter

	result, err := h.service.GetStatsTrend(c.Request.Context(), projectID, current, previous)
	if err != nil {
		h.fail(c, projectID, "stats trend query failed", err)
		return
	}

	currentOut := make([]dailyStatResponse, 0, len(result.Current))
	for _, row := range result.Current {
		currentOut = append(currentOut, toDailyStatResponse(row))
	}
	previousOut := make([]dailyStatResponse, 0, len(result.Previous))
	for _, row := range result.Previous {
		previousOut = append(previousOut, toDailyStatResponse(row))
	}

	c.JSON(http.StatusOK, gin.H{
		"current":  currentOut,
		"previous": previousOut,
	})
}

// parseRequest extracts the project id, range, and dimension filter shared by
// all stats endpoints. On failure it writes the 400 response itself.
func (h *StatsHandler) parseRequest(c *gin.Context) (uuid.UUID, stats.StatsQuery, bool) {
	projectID, err := uuid.Parse(c.Param("projectID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errBadProjectID.Error()})
		return uuid.Nil, stats.StatsQuery{}, false
	}

	query, err := parseQueryRange(c, "start", "end")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return uuid.Nil, stats.StatsQuery{}, false
	}

	filter, err := parseFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return uuid.Nil, stats.StatsQuery{}, false
	}
	query.Filter = filter

	return projectID, query, true
}

// parseQueryRange reads an optional date pair from the query string.
func parseQueryRange(c *gin.Context, startParam, endParam string) (stats.StatsQuery, error) {
	var query stats.StatsQuery

	if raw := c.Query(startParam); raw != "" {
		start, err := domain.ParseDate(raw)
		if err != nil {
			return stats.StatsQuery{}, err
		}
		query.Start = &start
	}

	if raw := c.Query(endParam); raw != "" {
		end, err := domain.ParseDate(raw)
		if err != nil {
			return stats.StatsQuery{}, err
		}
		query.End = &end
	}

	return query, nil
}

// parseFilter reads the optional dimension filters from the query string.
func parseFilter(c *gin.Context) (domain.DimensionFilter, error) {
	var filter domain.DimensionFilter

	if platform := c.Query("platform"); platform != "" {
		filter.Platform = domain.FilterEq(platform)
	}
	if region := c.Query("region"); region != "" {
		filter.Region = domain.FilterEq(region)
	}
	if raw := c.Query("topic"); raw != "" {
		topicID, err := uuid.Parse(raw)
		if err != nil {
			return domain.DimensionFilter{}, errors.New("invalid topic id")
		}
		filter.Topic = domain.TopicEq(topicID)
	}

	return filter, nil
}

// fail logs the failure with request context and returns a structured 500.
// The dashboard renders an empty chart on this; the engine still reports the
// failure rather than masking it.
func (h *StatsHandler) fail(c *gin.Context, projectID uuid.UUID, msg string, err error) {
	h.log.Error(msg,
		logger.String("project_id", projectID.String()),
		logger.String("path", c.Request.URL.Path),
		logger.Error(err),
	)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
}

// toDailyStatResponse converts a domain row to its JSON shape.
func toDailyStatResponse(row domain.DailyStat) dailyStatResponse {
	out := dailyStatResponse{
		StatDate:          row.StatDate.String(),
		EntityType:        string(row.EntityType),
		EntityName:        row.EntityName,
		MentionsCount:     row.MentionsCount,
		CitationsCount:    row.CitationsCount,
		ResponsesAnalyzed: row.ResponsesAnalyzed,
		Platform:          row.Platform,
		Region:            row.Region,
	}
	if row.CompetitorID != nil {
		id := row.CompetitorID.String()
		out.CompetitorID = &id
	}
	if row.TopicID != nil {
		id := row.TopicID.String()
		out.TopicID = &id
	}
	return out
}

// toSummaryResponse converts a domain summary to its JSON shape.
func toSummaryResponse(summary domain.EntitySummary) entitySummaryResponse {
	out := entitySummaryResponse{
		EntityType:     string(summary.EntityType),
		EntityName:     summary.EntityName,
		TotalMentions:  summary.TotalMentions,
		TotalCitations: summary.TotalCitations,
		Positive:       summary.Positive,
		Neutral:        summary.Neutral,
		Negative:       summary.Negative,
		AvgSentiment:   summary.AvgSentiment,
	}
	if summary.CompetitorID != nil {
		id := summary.CompetitorID.String()
		out.CompetitorID = &id
	}
	return out
}
