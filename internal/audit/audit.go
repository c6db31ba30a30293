package audit

import (
	"context"

	"github.com/weiawesome/wes-furniture/pkg/log"
)

// Audit actions for admin writes.
const (
	ActionCreateItem     = "item.create"
	ActionUpdateItem     = "item.update"
	ActionDeleteItem     = "item.delete"
	ActionCreateSet      = "set.create"
	ActionUpdateSet      = "set.update"
	ActionDeleteSet      = "set.delete"
	ActionUpdateRoom     = "room.update"
	ActionUpdateSettings = "settings.update"
	ActionUploadImage    = "image.upload"
)

// Field constants for audit entries.
const (
	FieldAction = "action"
	FieldTarget = "target"
	FieldDetail = "detail"
)

// Log emits a structured audit log entry via the context logger.
func Log(ctx context.Context, action string, target string, msg string) {
	l := log.Ctx(ctx)
	l.Info().
		Str(log.FieldLogType, log.LogTypeAudit).
		Str(FieldAction, action).
		Str(FieldTarget, target).
		Msg(msg)
}

// LogWithDetail emits an audit log with extra detail field.
func LogWithDetail(ctx context.Context, action string, target string, detail string, msg string) {
	l := log.Ctx(ctx)
	l.Info().
		Str(log.FieldLogType, log.LogTypeAudit).
		Str(FieldAction, action).
		Str(FieldTarget, target).
		Str(FieldDetail, detail).
		Msg(msg)
}
