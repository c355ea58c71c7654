package bspfile

import (
	"archive/zip"
	"fmt"
	"io"
	"path"
	"strings"
)

// CoD ships its levels inside .pk3 archives, which are plain zip files
// with the maps under "maps/*.bsp".

// ListBSPNames returns the archive paths of every .bsp entry in a pk3.
func ListBSPNames(pk3Path string) ([]string, error) {
	archive, err := zip.OpenReader(pk3Path)
	if err != nil {
		return nil, err
	}
	defer archive.Close()

	var names []string
	for _, f := range archive.File {
		if strings.EqualFold(path.Ext(f.Name), ".bsp") {
			names = append(names, f.Name)
		}
	}
	return names, nil
}

// ExtractBSP reads one level file out of a pk3 archive. The name may be
// the full archive path ("maps/carentan.bsp") or just the base name.
func ExtractBSP(pk3Path string, bspName string) ([]byte, error) {
	archive, err := zip.OpenReader(pk3Path)
	if err != nil {
		return nil, err
	}
	defer archive.Close()

	for _, f := range archive.File {
		if f.Name != bspName && path.Base(f.Name) != bspName {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, err
		}
		return data, nil
	}

	return nil, fmt.Errorf("bsp %v doesn't exist in %v", bspName, pk3Path)
}

// LoadBSPFromPK3 extracts and decodes one level out of a pk3 archive.
func LoadBSPFromPK3(pk3Path string, bspName string) (*MapData, error) {
	data, err := ExtractBSP(pk3Path, bspName)
	if err != nil {
		return nil, err
	}
	return LoadBSP(data)
}
