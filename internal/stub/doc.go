// Package stub is a local stand-in for the deepfake analysis service.
//
// It serves the two endpoints the client calls:
//
//	POST /analyze/          multipart field "file" -> JSON analysis result
//	POST /download-report/  JSON analysis result   -> application/pdf
//
// Analyses are produced by a Detector. The default HashDetector derives a
// stable answer from the upload's hash and reports boxes the way the real
// detection model does, as label/confidence pairs. The verdict is a
// deepfake when any box is labelled "fake", and the score is the mean box
// confidence. Demo mode returns a fixed two-anomaly sample instead.
//
// CORS is open to every origin so browser clients can use the stub too.
package stub
