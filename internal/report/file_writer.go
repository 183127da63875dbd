package report

import (
	"encoding/json"
	"os"
)

// FileWriter logs downlink and imaging rows to JSONL files. imagingPath may
// be empty to skip the imaging log.
type FileWriter struct {
	downFile *os.File
	imgFile  *os.File
	downEnc  *json.Encoder
	imgEnc   *json.Encoder
}

// NewFileWriter creates a FileWriter.
func NewFileWriter(downlinkPath, imagingPath string) (*FileWriter, error) {
	df, err := os.Create(downlinkPath)
	if err != nil {
		return nil, err
	}
	fw := &FileWriter{downFile: df, downEnc: json.NewEncoder(df)}
	if imagingPath != "" {
		imf, err := os.Create(imagingPath)
		if err != nil {
			df.Close()
			return nil, err
		}
		fw.imgFile = imf
		fw.imgEnc = json.NewEncoder(imf)
	}
	return fw, nil
}

// WriteDownlink logs a single downlink row.
func (f *FileWriter) WriteDownlink(row DownlinkRow) error {
	return f.downEnc.Encode(row)
}

// WriteDownlinks logs multiple downlink rows.
func (f *FileWriter) WriteDownlinks(rows []DownlinkRow) error {
	for _, r := range rows {
		if err := f.WriteDownlink(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteImaging logs a single imaging row, if enabled.
func (f *FileWriter) WriteImaging(row ImagingRow) error {
	if f.imgEnc == nil {
		return nil
	}
	return f.imgEnc.Encode(row)
}

// WriteImagings logs multiple imaging rows.
func (f *FileWriter) WriteImagings(rows []ImagingRow) error {
	for _, r := range rows {
		if err := f.WriteImaging(r); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the underlying files.
func (f *FileWriter) Close() error {
	var err error
	if f.downFile != nil {
		if e := f.downFile.Close(); e != nil && err == nil {
			err = e
		}
	}
	if f.imgFile != nil {
		if e := f.imgFile.Close(); e != nil && err == nil {
			err = e
		}
	}
	return err
}
