package model

//
// Common HTTP definitions.
//

const (
	// HTTPHeaderAccept is the Accept header we always send.
	HTTPHeaderAccept = "*/*"

	// HTTPHeaderAcceptLanguage is the Accept-Language header we always send.
	HTTPHeaderAcceptLanguage = "en-US"

	// HTTPHeaderUserAgent is the default User-Agent header.
	HTTPHeaderUserAgent = "OpenwrtRouter/23.05.5"
)
