// Package orchestrator wires the query pipeline together: locator
// resolution, schema snapshots, translation, guarded execution, and chart
// selection. Handlers talk to this package only.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/querylens/querylens/pkg/apperrors"
	"github.com/querylens/querylens/pkg/catalog"
	"github.com/querylens/querylens/pkg/config"
	"github.com/querylens/querylens/pkg/datasource"
	"github.com/querylens/querylens/pkg/datasource/sqlite"
	"github.com/querylens/querylens/pkg/executor"
	"github.com/querylens/querylens/pkg/logging"
	"github.com/querylens/querylens/pkg/session"
	"github.com/querylens/querylens/pkg/translator"
	"github.com/querylens/querylens/pkg/viz"
)

// ErrNoSession is returned when an operation names a session that does not
// exist or was already disconnected.
var ErrNoSession = errors.New("no database connection, connect to a database first")

// ErrUnknownTable is returned by SampleData for tables outside the schema.
var ErrUnknownTable = errors.New("table does not exist")

// Known connection types reported by Connect.
const (
	ConnectionTypeFixture = "fixture_database"
	ConnectionTypeUser    = "user_database"
)

// ConnectResult is the response to a successful connect.
type ConnectResult struct {
	SessionID      string            `json:"session_id"`
	Schema         *catalog.Snapshot `json:"schema"`
	Message        string            `json:"message"`
	ConnectionType string            `json:"connection_type"`
}

// Visualization bundles the chart decision for one result set.
type Visualization struct {
	Recommendation viz.Recommendation     `json:"recommendation"`
	Suggestion     *translator.Suggestion `json:"suggestion,omitempty"`
	Chart          viz.ChartType          `json:"chart_type"`
	Title          string                 `json:"title"`
	Payload        *viz.Payload           `json:"payload,omitempty"`
}

// QueryResponse is the response to a natural language query. Type "sql"
// carries results and a visualization; type "text" carries a direct answer.
type QueryResponse struct {
	Type           translator.ResultType `json:"type"`
	Question       string                `json:"question"`
	SQLQuery       string                `json:"sql_query,omitempty"`
	SQLExplanation string                `json:"sql_explanation,omitempty"`
	TablesUsed     []string              `json:"tables_used,omitempty"`
	Results        *executor.Result      `json:"results,omitempty"`
	Visualization  *Visualization        `json:"visualization,omitempty"`
	Text           string                `json:"text,omitempty"`
}

// SampleResult is the response to a table sample request.
type SampleResult struct {
	TableName  string           `json:"table_name"`
	SampleData []map[string]any `json:"sample_data"`
	RowCount   int              `json:"row_count"`
}

// QueryError carries the generated SQL alongside an execution failure so the
// caller can show what was attempted.
type QueryError struct {
	SQLQuery       string
	SQLExplanation string
	Err            error
}

func (e *QueryError) Error() string { return e.Err.Error() }
func (e *QueryError) Unwrap() error { return e.Err }

// Orchestrator coordinates the full question-to-chart pipeline.
type Orchestrator struct {
	cfg        *config.Config
	logger     *zap.Logger
	catalog    *catalog.Service
	executor   *executor.Executor
	translator translator.Translator
	sessions   *session.Registry
}

// New assembles an Orchestrator. If logger is nil, a no-op logger is used.
func New(cfg *config.Config, cat *catalog.Service, exec *executor.Executor, tr translator.Translator, sessions *session.Registry, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		cfg:        cfg,
		logger:     logger,
		catalog:    cat,
		executor:   exec,
		translator: tr,
		sessions:   sessions,
	}
}

// Connect resolves rawLocator, opens a handle, extracts the schema, and
// registers a session. An empty locator connects to the bundled fixture
// database. Reconnecting to a datasource refreshes its cached schema.
func (o *Orchestrator) Connect(ctx context.Context, rawLocator string) (*ConnectResult, error) {
	loc, err := datasource.Resolve(rawLocator, datasource.ResolveOptions{
		ProjectRoot:   o.cfg.Datasource.ProjectRoot,
		FixtureDBPath: o.cfg.Datasource.FixtureDBPath,
	})
	if err != nil {
		return nil, &apperrors.ConnectionError{
			Locator: logging.SanitizeLocator(rawLocator),
			Cause:   err,
		}
	}

	connectionType := ConnectionTypeUser
	if strings.TrimSpace(rawLocator) == "" {
		connectionType = ConnectionTypeFixture
		if err := sqlite.EnsureFixture(ctx, loc.DSN); err != nil {
			return nil, &apperrors.ConnectionError{
				Locator: logging.SanitizeLocator(loc.Identity),
				Cause:   err,
			}
		}
	}

	handle, err := datasource.Open(ctx, loc)
	if err != nil {
		return nil, &apperrors.ConnectionError{
			Locator: logging.SanitizeLocator(loc.Identity),
			Cause:   err,
		}
	}

	if err := handle.Tester.TestConnection(ctx); err != nil {
		handle.Close()
		return nil, &apperrors.ConnectionError{
			Locator: logging.SanitizeLocator(loc.Identity),
			Cause:   err,
		}
	}

	// A reconnect means the caller wants a fresh view of this datasource;
	// drop only its cache entry.
	o.catalog.Invalidate(handle.Identity)

	snap, err := o.catalog.Snapshot(ctx, handle)
	if err != nil {
		handle.Close()
		return nil, err
	}

	s := o.sessions.Create(handle)
	o.logger.Info("datasource connected",
		zap.String("session_id", s.ID),
		zap.String("driver", handle.Driver),
		zap.String("datasource", logging.SanitizeLocator(handle.Identity)),
		zap.String("connection_type", connectionType))

	return &ConnectResult{
		SessionID:      s.ID,
		Schema:         snap,
		Message:        "Database connected successfully",
		ConnectionType: connectionType,
	}, nil
}

// Query answers a natural language question against the session's
// datasource. SQL results are bounded by the guard, the deadline, and the
// row cap; the chart decision falls back to deterministic rules when the
// translator's suggestion is unusable.
func (o *Orchestrator) Query(ctx context.Context, sessionID, question string) (*QueryResponse, error) {
	s, ok := o.sessions.Get(sessionID)
	if !ok {
		return nil, ErrNoSession
	}

	snap, err := o.catalog.Snapshot(ctx, s.Handle)
	if err != nil {
		return nil, err
	}

	result, err := o.translator.Translate(ctx, snap.Description, question)
	if err != nil {
		return nil, err
	}

	if result.Type == translator.TypeText {
		return &QueryResponse{
			Type:     translator.TypeText,
			Question: question,
			Text:     result.Text,
		}, nil
	}

	execResult, err := o.executor.Execute(ctx, s.Handle.Executor, result.SQLQuery)
	if err != nil {
		o.logger.Warn("query failed",
			zap.String("session_id", sessionID),
			zap.String("error", logging.SanitizeError(err)))
		return nil, &QueryError{
			SQLQuery:       result.SQLQuery,
			SQLExplanation: result.Explanation,
			Err:            err,
		}
	}

	return &QueryResponse{
		Type:           translator.TypeSQL,
		Question:       question,
		SQLQuery:       result.SQLQuery,
		SQLExplanation: result.Explanation,
		TablesUsed:     result.TablesUsed,
		Results:        execResult,
		Visualization:  o.visualize(ctx, question, result.SQLQuery, execResult),
	}, nil
}

// visualize decides the chart for an executed result. The rule-based
// recommendation always stands; the translator may override it with a valid
// chart type and supply a title.
func (o *Orchestrator) visualize(ctx context.Context, question, sqlQuery string, res *executor.Result) *Visualization {
	recommendation := viz.Recommend(res.Columns, res.DataTypes, res.RowCount)

	v := &Visualization{
		Recommendation: recommendation,
		Chart:          recommendation.Chart,
		Title:          "Results for: " + question,
	}

	suggestion, err := o.translator.SuggestChart(ctx, translator.ResultSummary{
		Question:  question,
		SQLQuery:  sqlQuery,
		Columns:   res.Columns,
		DataTypes: res.DataTypes,
		RowCount:  res.RowCount,
	})
	if err != nil {
		o.logger.Debug("chart suggestion unavailable",
			zap.String("error", logging.SanitizeError(err)))
	} else if suggestion != nil && viz.Valid(suggestion.ChartType) {
		v.Suggestion = suggestion
		v.Chart = viz.ChartType(suggestion.ChartType)
		if suggestion.Title != "" {
			v.Title = suggestion.Title
		}
	}

	payload, err := viz.BuildPayload(v.Chart, v.Title, res.Columns, res.DataTypes, res.Rows)
	if err != nil {
		// Unchartable shape; fall back to a plain table rendering.
		v.Chart = viz.Table
		return v
	}
	v.Payload = payload
	return v
}

// Schema returns the session's cached schema snapshot.
func (o *Orchestrator) Schema(ctx context.Context, sessionID string) (*catalog.Snapshot, error) {
	s, ok := o.sessions.Get(sessionID)
	if !ok {
		return nil, ErrNoSession
	}
	return o.catalog.Snapshot(ctx, s.Handle)
}

// SampleData returns up to limit rows of one table for schema exploration.
func (o *Orchestrator) SampleData(ctx context.Context, sessionID, table string, limit int) (*SampleResult, error) {
	s, ok := o.sessions.Get(sessionID)
	if !ok {
		return nil, ErrNoSession
	}
	if limit <= 0 {
		limit = o.cfg.Query.SampleLimit
	}

	if !o.catalog.TableExists(ctx, s.Handle, table) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}

	samples := o.catalog.SampleRows(ctx, s.Handle, table, limit)
	return &SampleResult{
		TableName:  table,
		SampleData: samples,
		RowCount:   len(samples),
	}, nil
}

// Disconnect closes the session's handle and drops its schema cache entry.
func (o *Orchestrator) Disconnect(sessionID string) error {
	s, ok := o.sessions.Remove(sessionID)
	if !ok {
		return ErrNoSession
	}

	o.catalog.Invalidate(s.Handle.Identity)
	if err := s.Handle.Close(); err != nil {
		o.logger.Warn("handle close failed",
			zap.String("session_id", sessionID),
			zap.String("error", logging.SanitizeError(err)))
	}

	o.logger.Info("datasource disconnected", zap.String("session_id", sessionID))
	return nil
}
