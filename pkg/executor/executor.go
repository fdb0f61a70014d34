// Package executor runs validated SQL against a datasource and shapes the
// result for downstream consumers. Every statement passes through the guard
// again here, so a caller that skipped validation still cannot reach the
// database with an unsafe query.
package executor

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/querylens/querylens/pkg/apperrors"
	"github.com/querylens/querylens/pkg/config"
	"github.com/querylens/querylens/pkg/datasource"
	"github.com/querylens/querylens/pkg/guard"
)

// Result is a bounded, typed result set.
type Result struct {
	Columns   []string `json:"columns"`
	DataTypes []string `json:"data_types"`
	Rows      [][]any  `json:"rows"`
	RowCount  int      `json:"row_count"`
	Truncated bool     `json:"truncated"`
}

// Executor applies the guard, a deadline, and the row cap around raw query
// execution.
type Executor struct {
	guard   guard.Validator
	logger  *zap.Logger
	timeout time.Duration
	maxRows int
}

// New creates an Executor. If logger is nil, a no-op logger is used.
func New(g guard.Validator, cfg config.QueryConfig, logger *zap.Logger) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{
		guard:   g,
		logger:  logger,
		timeout: cfg.Timeout(),
		maxRows: cfg.MaxRows,
	}
}

// Execute validates sqlQuery, runs it with the configured deadline, and
// returns at most the configured row cap. Truncated is set only when the
// source actually held more rows than the cap.
func (e *Executor) Execute(ctx context.Context, sqlExec datasource.SQLExecutor, sqlQuery string) (*Result, error) {
	verdict := e.guard.Validate(sqlQuery)
	if !verdict.Safe {
		return nil, &apperrors.ValidationError{Reason: verdict.Reason}
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	// Fetch one row beyond the cap to distinguish "exactly at the cap"
	// from "more rows remain".
	rowSet, err := sqlExec.Query(ctx, sqlQuery, e.maxRows+1)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
			return nil, &apperrors.ExecutionError{Timeout: true, Cause: err}
		}
		return nil, &apperrors.ExecutionError{Cause: err}
	}

	rows := rowSet.Rows
	truncated := false
	if len(rows) > e.maxRows {
		rows = rows[:e.maxRows]
		truncated = true
		e.logger.Warn("query result truncated",
			zap.Int("max_rows", e.maxRows))
	}

	dataTypes := make([]string, len(rowSet.TypeNames))
	for i, name := range rowSet.TypeNames {
		dataTypes[i] = NormalizeType(name)
	}

	return &Result{
		Columns:   rowSet.Columns,
		DataTypes: dataTypes,
		Rows:      rows,
		RowCount:  len(rows),
		Truncated: truncated,
	}, nil
}
