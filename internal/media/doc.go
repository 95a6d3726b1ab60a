// Package media wraps the ffmpeg tool family for probing rendered files and
// demultiplexing multi-language masters.
//
// Both operations are synchronous subprocess calls; timeout policy belongs
// to the caller's context. The command constructor is injectable so tests
// can substitute a helper process.
package media
