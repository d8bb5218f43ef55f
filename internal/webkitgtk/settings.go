package webkitgtk

// WebkitSettings are applied to every web view before it loads.
type WebkitSettings struct {
	EnableJavascript                      bool
	AutoLoadImages                        bool
	EnableHtml5LocalStorage               bool
	EnableHtml5Database                   bool
	JavascriptCanOpenWindowsAutomatically bool
	DefaultCharset                        string
	EnableDeveloperExtras                 bool
	EnableFullscreen                      bool
	EnableWebAudio                        bool
	EnableWebgl                           bool
	EnableMedia                           bool
	AllowModalDialogs                     bool
	MediaPlaybackRequiresUserGesture      bool
	EnableSmoothScrolling                 bool
	EnableWriteConsoleMessagesToStdout    bool
	AllowFileAccessFromFileUrls           bool
}

// DefaultWebkitSettings suits a local game page: scripts, canvas, audio and
// storage on, popups and developer tools off. The page loads sibling scripts
// through file:// URLs, hence AllowFileAccessFromFileUrls.
var DefaultWebkitSettings = WebkitSettings{
	EnableJavascript:                      true,
	AutoLoadImages:                        true,
	EnableHtml5LocalStorage:               true,
	EnableHtml5Database:                   true,
	JavascriptCanOpenWindowsAutomatically: false,
	DefaultCharset:                        "utf-8",
	EnableDeveloperExtras:                 false,
	EnableFullscreen:                      true,
	EnableWebAudio:                        true,
	EnableWebgl:                           true,
	EnableMedia:                           true,
	AllowModalDialogs:                     false,
	MediaPlaybackRequiresUserGesture:      false,
	EnableSmoothScrolling:                 true,
	EnableWriteConsoleMessagesToStdout:    false,
	AllowFileAccessFromFileUrls:           true,
}

func (settings WebkitSettings) apply(settingsPtr webkitSettingsPtr) {
	lib.webkitSettings.SetEnableJavascript(settingsPtr, settings.EnableJavascript)
	lib.webkitSettings.SetAutoLoadImages(settingsPtr, settings.AutoLoadImages)
	lib.webkitSettings.SetEnableHtml5LocalStorage(settingsPtr, settings.EnableHtml5LocalStorage)
	lib.webkitSettings.SetEnableHtml5Database(settingsPtr, settings.EnableHtml5Database)
	lib.webkitSettings.SetJavascriptCanOpenWindowsAutomatically(settingsPtr, settings.JavascriptCanOpenWindowsAutomatically)
	if settings.DefaultCharset != "" {
		lib.webkitSettings.SetDefaultCharset(settingsPtr, settings.DefaultCharset)
	}
	lib.webkitSettings.SetEnableDeveloperExtras(settingsPtr, settings.EnableDeveloperExtras)
	lib.webkitSettings.SetEnableFullscreen(settingsPtr, settings.EnableFullscreen)
	lib.webkitSettings.SetEnableWebaudio(settingsPtr, settings.EnableWebAudio)
	lib.webkitSettings.SetEnableWebgl(settingsPtr, settings.EnableWebgl)
	lib.webkitSettings.SetEnableMedia(settingsPtr, settings.EnableMedia)
	lib.webkitSettings.SetAllowModalDialogs(settingsPtr, settings.AllowModalDialogs)
	lib.webkitSettings.SetMediaPlaybackRequiresUserGesture(settingsPtr, settings.MediaPlaybackRequiresUserGesture)
	lib.webkitSettings.SetEnableSmoothScrolling(settingsPtr, settings.EnableSmoothScrolling)
	lib.webkitSettings.SetEnableWriteConsoleMessagesToStdout(settingsPtr, settings.EnableWriteConsoleMessagesToStdout)
	lib.webkitSettings.SetAllowFileAccessFromFileUrls(settingsPtr, settings.AllowFileAccessFromFileUrls)
}
