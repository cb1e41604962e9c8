// Command webcam-monitor tracks webcam snapshot metadata from the USGS
// volcview ashcam API in a local JSON timeline.
//
//	webcam-monitor import    # seed the timeline with the full listing
//	webcam-monitor update    # merge the newest images into the timeline
//	webcam-monitor watch     # run update on a schedule until interrupted
//	webcam-monitor list      # show the stored timeline
//	webcam-monitor status    # show state and archive summary
package main
