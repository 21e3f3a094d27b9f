package languages

// DefaultCodes is the candidate list used when no languages file is given.
var DefaultCodes = []string{
	"en", "ar", "bn", "de", "es", "fa", "fr", "gu", "he", "hi",
	"id", "it", "ja", "kn", "ko", "ml", "mr", "nl", "or", "pa",
	"pl", "pt", "ru", "si", "sr", "sv", "ta", "te", "th", "tr",
	"uk", "ur", "vi", "zh", "af", "am", "az", "be", "bg", "ca",
	"cs", "cy", "da", "el", "et", "eu", "fi", "ga", "gl", "hr",
	"hu", "hy", "is", "ka", "kk", "km", "lo", "lt", "lv", "mk",
	"mn", "ms", "mt", "my", "nb", "ne", "ro", "sk", "sl", "sq",
	"sw", "uz", "xh", "yo", "zu",
}
