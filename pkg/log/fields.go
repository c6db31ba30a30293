package log

const (
	// Request
	FieldRequestID = "request_id"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldStatus    = "status"
	FieldLatency   = "latency_ms"
	FieldClientIP  = "client_ip"

	// Service
	FieldService = "service"

	// Catalog
	FieldCacheKey = "cache_key"
	FieldPattern  = "pattern"
	FieldSlug     = "slug"
	FieldCode     = "code"
	FieldQuery    = "query"

	// Log type (for audit log)
	FieldLogType = "log_type"
	LogTypeAudit = "audit"
)
