// Package voctoweb publishes releases to the media CDN frontend.
//
// A master ticket creates (or updates) a talk-level event keyed by the
// fahrplan GUID; every language file then attaches a recording to that
// event. The API signals "already published" with HTTP 422, which is mapped
// to Result.AlreadyExists rather than an error.
package voctoweb
