package main

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// displayMaxDim caps the longest edge of a displayed photo.
const displayMaxDim = 900

// showPhoto opens the image in a window and blocks until a key is pressed.
func showPhoto(path, title string) error {
	mat := gocv.IMRead(path, gocv.IMReadColor)
	if mat.Empty() {
		return fmt.Errorf("could not read %s", path)
	}
	defer mat.Close()

	if w, h := mat.Cols(), mat.Rows(); w > displayMaxDim || h > displayMaxDim {
		scale := float64(displayMaxDim) / float64(max(w, h))
		resized := gocv.NewMat()
		gocv.Resize(mat, &resized, image.Pt(int(float64(w)*scale), int(float64(h)*scale)), 0, 0, gocv.InterpolationArea)
		mat.Close()
		mat = resized
	}

	window := gocv.NewWindow(title)
	defer window.Close()
	window.IMShow(mat)
	window.WaitKey(0)
	return nil
}

// captureReferencePhoto grabs one frame from the default webcam and writes
// it to path.
func captureReferencePhoto(path string) error {
	webcam, err := gocv.OpenVideoCapture(0)
	if err != nil {
		return fmt.Errorf("open webcam: %w", err)
	}
	defer webcam.Close()

	frame := gocv.NewMat()
	defer frame.Close()
	if ok := webcam.Read(&frame); !ok || frame.Empty() {
		return fmt.Errorf("could not read a frame from the webcam")
	}
	if ok := gocv.IMWrite(path, frame); !ok {
		return fmt.Errorf("could not write %s", path)
	}
	return nil
}
