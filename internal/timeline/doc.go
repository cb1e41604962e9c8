// Package timeline holds the in-memory representation of the webcam image
// timeline and the merge logic that folds freshly fetched batches into it.
//
// A timeline is a newest-first list of (timestamp, url) records. On disk it
// is stored as a JSON document of two-element arrays:
//
//	{"list": [[1700000200, "https://.../b.jpg"], [1700000100, "https://.../a.jpg"]]}
//
// The package is pure: no I/O, no clocks. Persistence lives in statestore
// and fetching in volcview.
package timeline
