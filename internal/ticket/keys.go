package ticket

// Source property keys read from the tracker. Dotted namespaces are tracker
// convention; lookups are case-insensitive.
const (
	keyFahrplanID       = "Fahrplan.ID"
	keyFahrplanGUID     = "Fahrplan.GUID"
	keyFahrplanSlug     = "Fahrplan.Slug"
	keyTitle            = "Fahrplan.Title"
	keySubtitle         = "Fahrplan.Subtitle"
	keyAbstract         = "Fahrplan.Abstract"
	keyDescription      = "Fahrplan.Description"
	keyPersons          = "Fahrplan.Person_list"
	keyRoom             = "Fahrplan.Room"
	keyTrack            = "Fahrplan.Track"
	keyDay              = "Fahrplan.Day"
	keyDate             = "Fahrplan.Date"
	keyConference       = "Meta.Acronym"
	keyLanguage         = "Record.Language"
	keyLanguagePrefix   = "Record.Language."
	keyLanguageOverride = "Record.Languages"
	keyLanguageIndex    = "Encoding.LanguageIndex"

	keyIsMaster         = "EncodingProfile.IsMaster"
	keyProfileSlug      = "EncodingProfile.Slug"
	keyProfileExtension = "EncodingProfile.Extension"
	keyProfileMimeType  = "EncodingProfile.MimeType"
	keyProfileBasename  = "EncodingProfile.Basename"

	keyPublishingPath = "Publishing.Path"
	keyPublishingTags = "Publishing.Tags"
	keyFolder         = "Publishing.Folder"

	keyVoctowebEnableProfile = "Publishing.Voctoweb.EnableProfile"
	keyVoctowebEnable        = "Publishing.Voctoweb.Enable"
	keyVoctowebUpdate        = "Publishing.Voctoweb.Update"
	keyVoctowebSlug          = "Publishing.Voctoweb.Slug"
	keyVoctowebPath          = "Publishing.Voctoweb.Path"
	keyVoctowebThumbPath     = "Publishing.Voctoweb.Thumbpath"
	keyVoctowebEventID       = "Voctoweb.EventId"
	keyVoctowebRecordingPfx  = "Voctoweb.RecordingId."

	keyYouTubeEnableProfile = "Publishing.YouTube.EnableProfile"
	keyYouTubeEnable        = "Publishing.YouTube.Enable"
	keyYouTubeUpdate        = "Publishing.YouTube.Update"
	keyYouTubePrivacy       = "Publishing.YouTube.Privacy"
	keyYouTubePublishAt     = "Publishing.YouTube.PublishAt"
	keyYouTubeTags          = "Publishing.YouTube.Tags"
	keyYouTubePlaylists     = "Publishing.YouTube.Playlists"
	keyYouTubeToken         = "Publishing.YouTube.Token"
	keyYouTubeURLPrefix     = "YouTube.Url"

	keyRcloneEnableProfile = "Publishing.Rclone.EnableProfile"
	keyRcloneEnable        = "Publishing.Rclone.Enable"
	keyRcloneDestination   = "Publishing.Rclone.Destination"
	keyRcloneDestFileName  = "Rclone.DestinationFileName"

	keyWebhookEnableProfile = "Publishing.Webhook.EnableProfile"
	keyWebhookEnable        = "Publishing.Webhook.Enable"
	keyWebhookURL           = "Publishing.Webhook.Url"

	keyAnnounceEnableProfile = "Publishing.Announce.EnableProfile"
	keyAnnounceEnable        = "Publishing.Announce.Enable"
	keyAnnounceMessage       = "Publishing.Announce.Message"
)

// requiredKeys are the keys every publish ticket must carry, checked eagerly
// at Resolve time.
var requiredKeys = []string{
	keyFahrplanID,
	keyFahrplanGUID,
	keyTitle,
	keyRoom,
	keyDate,
	keyLanguage,
	keyIsMaster,
	keyProfileSlug,
	keyProfileExtension,
	keyProfileMimeType,
	keyProfileBasename,
	keyPublishingPath,
}
