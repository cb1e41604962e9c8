// Package volcview provides a typed client for the USGS volcview ashcam
// image API.
//
// Two endpoints are used: the full listing for a webcam, and the
// parameterized newest-first listing of the N most recent images. The API
// is loose about numeric types; imageTimestamp arrives as either a JSON
// number or an int-like string, and both are accepted.
package volcview
