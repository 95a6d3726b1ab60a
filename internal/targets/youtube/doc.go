// Package youtube publishes releases to the video platform.
//
// The adapter refreshes its OAuth access token per run, starts a resumable
// upload session for each language file, and streams the file in one PUT.
// Multi-language tickets get the language display name appended to the video
// title so viewers can tell the audio tracks apart.
package youtube
