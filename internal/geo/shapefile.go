package geo

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// BoxesFromShapefile reads neighborhood polygons from a .shp file (or a .zip
// archive containing one) and returns each record's bounding box, named by
// the nameField attribute. Records keep their file order.
func BoxesFromShapefile(path, nameField string) ([]NamedBox, error) {
	log := zap.L().With(zap.String("component", "geo.shapefile"))

	shpPath := path
	if strings.EqualFold(filepath.Ext(path), ".zip") {
		dir, err := os.MkdirTemp("", "poi-shp-*")
		if err != nil {
			return nil, eris.Wrap(err, "geo: create extract dir")
		}
		defer os.RemoveAll(dir) //nolint:errcheck

		if err := extractZIP(path, dir); err != nil {
			return nil, eris.Wrap(err, "geo: extract shapefile archive")
		}
		shpPath, err = findFileByExt(dir, ".shp")
		if err != nil {
			return nil, eris.Wrap(err, "geo: find .shp file")
		}
	}

	reader, err := shp.Open(shpPath)
	if err != nil {
		return nil, eris.Wrap(err, "geo: open shapefile")
	}
	defer func() { _ = reader.Close() }()

	nameIdx := fieldIndex(reader, nameField)
	if nameIdx < 0 {
		return nil, eris.Errorf("geo: shapefile field %q not found", nameField)
	}

	var boxes []NamedBox
	for reader.Next() {
		_, shape := reader.Shape()
		if shape == nil {
			continue
		}
		name := strings.TrimSpace(reader.Attribute(nameIdx))
		if name == "" {
			continue
		}

		bb := shape.BBox()
		// Shapefile X is longitude, Y is latitude.
		boxes = append(boxes, NamedBox{
			Name: name,
			Box:  BoxFromBounds(bb.MinY, bb.MinX, bb.MaxY, bb.MaxX),
		})
	}

	log.Info("shapefile boxes loaded", zap.String("path", path), zap.Int("boxes", len(boxes)))
	return boxes, nil
}

// extractZIP unpacks a zipped shapefile bundle into destDir, ignoring any
// directories inside the archive.
func extractZIP(zipPath, destDir string) error {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return eris.Wrap(err, "open zip")
	}
	defer r.Close() //nolint:errcheck

	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		destPath := filepath.Join(destDir, filepath.Base(f.Name))

		rc, err := f.Open()
		if err != nil {
			return eris.Wrapf(err, "open zip entry %s", f.Name)
		}
		outFile, err := os.Create(destPath)
		if err != nil {
			_ = rc.Close()
			return eris.Wrapf(err, "create %s", destPath)
		}
		if _, err := io.Copy(outFile, rc); err != nil {
			_ = outFile.Close()
			_ = rc.Close()
			return eris.Wrapf(err, "extract %s", f.Name)
		}
		_ = outFile.Close()
		_ = rc.Close()
	}
	return nil
}

// findFileByExt locates the .shp (or sibling) member of an unpacked bundle.
func findFileByExt(dir, ext string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", eris.Wrap(err, "read directory")
	}
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(strings.ToLower(e.Name()), ext) {
			return filepath.Join(dir, e.Name()), nil
		}
	}
	return "", eris.Errorf("no %s file found in %s", ext, dir)
}

// fieldIndex returns the column holding neighborhood names, matched
// case-insensitively, or -1.
func fieldIndex(reader *shp.Reader, name string) int {
	for i, f := range reader.Fields() {
		if strings.EqualFold(strings.TrimRight(f.String(), "\x00"), name) {
			return i
		}
	}
	return -1
}
