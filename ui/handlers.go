package ui

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"time"

	"growthlens/adapters/postgres"
	"growthlens/adapters/tabular"
	"growthlens/internal/analysis"
	"growthlens/internal/charts"
	"growthlens/internal/cleaning"
	"growthlens/internal/errors"
	"growthlens/internal/profiling"
	"growthlens/internal/session"

	"github.com/gin-gonic/gin"
)

// indexView is everything the dashboard template needs for one render.
type indexView struct {
	Intro       template.HTML
	Name        string
	Loaded      bool
	Filename    string
	Flash       *session.Flash
	Celebrate   bool
	Summary     *profiling.Summary
	Columns     []string
	NumericCols []string
	ChartKinds  []charts.Kind
	Widgets     session.Widgets
	Basename    string
	History     []postgres.UploadRecord
}

func (s *Server) handleIndex(c *gin.Context) {
	sess := s.session(c)

	view := indexView{
		Intro:      s.introHTML,
		Name:       sess.Name,
		Loaded:     sess.Loaded(),
		Filename:   sess.Filename,
		Flash:      sess.TakeFlash(),
		ChartKinds: charts.Kinds(),
		Widgets:    sess.Widgets,
		Basename:   tabular.DefaultBasename(time.Now()),
	}
	if sess.Widgets.Basename != "" {
		view.Basename = sess.Widgets.Basename
	}

	if sess.Loaded() {
		view.Celebrate = sess.Celebrate()
		view.Columns = sess.Table.Headers()
		view.NumericCols = sess.Table.NumericColumns()

		summary, err := profiling.Profile(c.Request.Context(), sess.Table, s.cfg.Data.PreviewRows)
		if err != nil {
			s.logger.Error("profile failed: %v", err)
			view.Flash = &session.Flash{Level: "error", Message: "Could not summarize the dataset."}
		} else {
			view.Summary = summary
		}
	}

	if s.history != nil {
		records, err := s.history.List(c.Request.Context(), 10)
		if err != nil {
			s.logger.Warn("upload history unavailable: %v", err)
		} else {
			view.History = records
		}
	}

	c.HTML(http.StatusOK, "index.html", view)
}

func (s *Server) handleUpload(c *gin.Context) {
	sess := s.session(c)

	if name := c.PostForm("name"); name != "" {
		sess.Name = name
	}

	header, err := c.FormFile("dataset")
	if err != nil {
		sess.SetFlash("error", "Choose a CSV or XLSX file to upload.")
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	if header.Size > s.cfg.Data.MaxUploadBytes {
		sess.SetFlash("error", fmt.Sprintf("File is too large; the limit is %d MB.", s.cfg.Data.MaxUploadBytes/(1024*1024)))
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	file, err := header.Open()
	if err != nil {
		sess.SetFlash("error", "Could not read the uploaded file.")
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		sess.SetFlash("error", "Could not read the uploaded file.")
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	tbl, err := tabular.Read(bytes.NewReader(data), header.Filename)
	if err != nil {
		// A failed load drops any previously loaded table; the
		// dashboard returns to the upload prompt.
		sess.ClearTable()
		s.logger.Warn("load failure for %q: %v", header.Filename, err)
		sess.SetFlash("error", userMessage(err))
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	sess.SetTable(tbl, header.Filename)

	// Retention and history are best-effort; the dashboard works
	// without them.
	storedPath, err := s.uploads.Store(c.Request.Context(), data, header.Filename)
	if err != nil {
		s.logger.Warn("failed to retain upload %q: %v", header.Filename, err)
	}
	if s.history != nil {
		_, err := s.history.Insert(c.Request.Context(), header.Filename,
			tbl.Rows(), tbl.Cols(), len(tbl.NumericColumns()), storedPath)
		if err != nil {
			s.logger.Warn("failed to record upload history: %v", err)
		}
	}

	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) handleClean(c *gin.Context) {
	sess := s.session(c)
	if !sess.Loaded() {
		sess.SetFlash("error", "Load a dataset before cleaning.")
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	switch c.Param("op") {
	case "dedupe":
		cleaned, report := cleaning.Deduplicate(sess.Table)
		sess.ReplaceTable(cleaned)
		sess.SetFlash("info", fmt.Sprintf("Removed %d duplicate rows.", report.RowsRemoved))
	case "impute":
		cleaned, report, err := cleaning.ImputeNumeric(sess.Table)
		if err != nil {
			sess.SetFlash("warning", userMessage(err))
			break
		}
		sess.ReplaceTable(cleaned)
		sess.SetFlash("info", fmt.Sprintf("Filled missing values in %d numeric columns.", report.ColumnsImputed))
	case "drop":
		cleaned, report := cleaning.DropIncomplete(sess.Table)
		sess.ReplaceTable(cleaned)
		sess.SetFlash("info", fmt.Sprintf("Dropped %d incomplete rows.", report.RowsRemoved))
	default:
		sess.SetFlash("error", "Unknown cleaning operation.")
	}

	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) handleChart(c *gin.Context) {
	sess := s.session(c)
	if !sess.Loaded() {
		s.messagePage(c, "info", "Load a dataset to build charts.")
		return
	}

	sess.Widgets.ChartKind = c.Query("kind")
	sess.Widgets.ChartX = c.Query("x")
	sess.Widgets.ChartY = c.Query("y")
	sess.Widgets.ChartColor = c.Query("color")

	kind, ok := charts.ParseKind(sess.Widgets.ChartKind)
	if !ok {
		s.messagePage(c, "error", fmt.Sprintf("Unknown chart type %q.", sess.Widgets.ChartKind))
		return
	}

	page, err := charts.Build(sess.Table, charts.Spec{
		Kind:  kind,
		X:     sess.Widgets.ChartX,
		Y:     sess.Widgets.ChartY,
		Color: sess.Widgets.ChartColor,
	})
	if err != nil {
		s.logger.Warn("chart render failed: %v", err)
		s.messagePage(c, "error", userMessage(err))
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}

func (s *Server) handleCorrelation(c *gin.Context) {
	sess := s.session(c)
	if !sess.Loaded() {
		s.messagePage(c, "info", "Load a dataset to compute correlations.")
		return
	}

	matrix, err := analysis.Compute(sess.Table)
	if err != nil {
		if errors.IsNoOp(err) {
			s.messagePage(c, "warning", userMessage(err))
			return
		}
		s.logger.Warn("correlation failed: %v", err)
		s.messagePage(c, "error", userMessage(err))
		return
	}

	page, err := charts.RenderHeatmap(matrix)
	if err != nil {
		s.logger.Warn("heatmap render failed: %v", err)
		s.messagePage(c, "error", userMessage(err))
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}

func (s *Server) handleExport(c *gin.Context) {
	sess := s.session(c)
	if !sess.Loaded() {
		sess.SetFlash("error", "Load a dataset before exporting.")
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	format := tabular.Format(c.DefaultQuery("format", string(tabular.FormatCSV)))
	basename := c.Query("basename")
	sess.Widgets.ExportFormat = string(format)
	sess.Widgets.Basename = basename

	artifact, err := tabular.Export(sess.Table, format, basename)
	if err != nil {
		sess.SetFlash("error", userMessage(err))
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", artifact.Filename))
	c.Data(http.StatusOK, artifact.MediaType, artifact.Data)
}

// messagePage renders a minimal standalone page for the iframe
// endpoints, styled to match the dashboard.
func (s *Server) messagePage(c *gin.Context, level, message string) {
	c.HTML(http.StatusOK, "message.html", gin.H{
		"Level":   level,
		"Message": message,
	})
}

// userMessage strips internal detail from an error before showing it.
func userMessage(err error) string {
	if appErr, ok := err.(*errors.AppError); ok {
		return appErr.Message
	}
	return "Something went wrong."
}
