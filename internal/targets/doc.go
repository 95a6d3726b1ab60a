// Package targets defines the narrow interfaces each publishing destination
// exposes to the orchestrator, plus shared request/result types.
//
// One subpackage per external system implements them: voctoweb (media CDN),
// youtube (video platform), rclone (generic file sync), webhook (outbound
// release notification). Adapters own their transport details and timeout
// policy; the orchestrator only sees these interfaces and the error marker
// services.ErrTarget.
package targets
