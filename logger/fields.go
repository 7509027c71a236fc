package logger

// Field keys shared by every fileflow component.
const (
	FieldComponent = "component"
	FieldRunID     = "run_id"
	FieldTask      = "task"
	FieldFile      = "file"
	FieldMode      = "mode"
	FieldDecision  = "decision"
	FieldError     = "error"
	FieldDuration  = "duration_ms"
)

// Fields builds a field map from alternating key-value pairs. Non-string
// keys and a trailing key without a value are dropped.
//
//	log.Info("up to date, skipping", logger.Fields(logger.FieldTask, "clean"))
func Fields(kvs ...interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(kvs)/2)
	for i := 0; i+1 < len(kvs); i += 2 {
		if key, ok := kvs[i].(string); ok {
			m[key] = kvs[i+1]
		}
	}
	return m
}

// MergeWithError adds err under FieldError, allocating fields when nil.
func MergeWithError(fields map[string]interface{}, err error) map[string]interface{} {
	if fields == nil {
		fields = make(map[string]interface{}, 1)
	}
	fields[FieldError] = err.Error()
	return fields
}
