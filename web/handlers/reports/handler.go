package reports

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"axiapac.com/portal/reports"
	"axiapac.com/portal/utils"
	web "axiapac.com/portal/web/common"
)

var errInvalidLabels = errors.New("labels must be a JSON array of strings")

type Endpoint struct {
	service *reports.Service
	log     *zap.Logger
}

func Register(r *gin.RouterGroup, service *reports.Service, log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}
	endpoint := &Endpoint{service: service, log: log}
	r.GET("/timesheets/reports", endpoint.Get)
}

type ReportQuery struct {
	AccountID      string `form:"accountId" binding:"required"`
	OrganizationID string `form:"organizationId" binding:"required"`
	Labels         string `form:"labels" binding:"required,json"`
	Type           string `form:"type"`
	StartDate      string `form:"startDate" binding:"omitempty,datetime=2006-01-02"`
	EndDate        string `form:"endDate" binding:"omitempty,datetime=2006-01-02"`
	ProjectID      string `form:"projectId"`
	UserID         string `form:"userId"`
	Frequency      string `form:"frequency"`
	// Export picks an attachment format; any other value gets the JSON report.
	Export         string `form:"export"`
}

// Request converts the query into a report request, reading dates in loc.
func (q ReportQuery) Request(loc *time.Location) (reports.Request, error) {
	var labels []string
	if err := json.Unmarshal([]byte(q.Labels), &labels); err != nil || labels == nil {
		return reports.Request{}, errInvalidLabels
	}

	req := reports.Request{
		Identity: reports.Identity{
			AccountID:      q.AccountID,
			OrganizationID: q.OrganizationID,
			Labels:         labels,
		},
		Type: reports.ReportType(q.Type),
		Filters: reports.Filters{
			ProjectID: q.ProjectID,
			UserID:    q.UserID,
			Frequency: reports.Frequency(q.Frequency),
		},
	}

	if q.StartDate != "" {
		start, err := utils.ParseDate(q.StartDate, loc)
		if err != nil {
			return reports.Request{}, err
		}
		req.StartDate = &start
	}
	if q.EndDate != "" {
		end, err := utils.ParseDate(q.EndDate, loc)
		if err != nil {
			return reports.Request{}, err
		}
		req.EndDate = &end
	}
	return req, nil
}

func (ep *Endpoint) Get(c *gin.Context) {
	var query ReportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse(web.FormatBindingError(err)))
		return
	}

	req, err := query.Request(ep.service.Location())
	if err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse(err.Error()))
		return
	}

	report, err := ep.service.Generate(c.Request.Context(), req)
	if err != nil {
		var reqErr *reports.RequestError
		if errors.As(err, &reqErr) {
			c.JSON(http.StatusBadRequest, web.NewErrorResponse(reqErr.Message))
			return
		}
		ep.log.Error("report generation failed",
			zap.String("organizationId", req.OrganizationID),
			zap.String("accountId", req.AccountID),
			zap.String("type", query.Type),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
		return
	}

	format := reports.ExportFormat(query.Export)
	switch format {
	case reports.ExportCSV:
		body := reports.RenderCSV(report.Data, report.Type)
		ep.attachment(c, format, report, []byte(body))
	case reports.ExportXLSX:
		body, err := reports.RenderXLSX(report.Data, report.Type)
		if err != nil {
			c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
			return
		}
		ep.attachment(c, format, report, body)
	default:
		c.JSON(http.StatusOK, report)
	}
}

func (ep *Endpoint) attachment(c *gin.Context, format reports.ExportFormat, report *reports.Report, body []byte) {
	filename := format.Filename(report.Type, report.GeneratedAt)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	c.Data(http.StatusOK, format.ContentType(), body)
}
