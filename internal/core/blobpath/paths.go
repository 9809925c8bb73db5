// Package blobpath builds object keys for uploaded audio artifacts.
//
// All transcription-scoped audio lives under:
//
//	fretwise/users/{user_id}/transcriptions/{transcription_id}/audio/youtube.mp3
//
// Identifiers are inserted verbatim; callers are trusted to supply
// path-safe values.
package blobpath

import "fmt"

// ProjectPrefix is the fixed top-level prefix for all transcription-scoped keys.
const ProjectPrefix = "fretwise"

// audioFilename is fixed so re-running an extraction for the same
// transcription overwrites the prior object.
const audioFilename = "youtube.mp3"

// YouTubeAudio returns the transcription-scoped key for an extracted audio file.
func YouTubeAudio(userID, transcriptionID string) string {
	return fmt.Sprintf("%s/users/%s/transcriptions/%s/audio/%s",
		ProjectPrefix, userID, transcriptionID, audioFilename)
}

// SimpleDownload returns the flat key used when no transcription context
// applies, keyed by the source platform's video id.
func SimpleDownload(videoID string) string {
	return fmt.Sprintf("downloads/%s.mp3", videoID)
}
