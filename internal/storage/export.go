package storage

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/san-kum/streamtrace/internal/streamline"
)

// jsonFloat encodes non-finite values as null.
type jsonFloat float64

func (f jsonFloat) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(v)
}

type ExportData struct {
	RunMetadata
	SeedIndex  int            `json:"seed_index"`
	Trajectory [][2]jsonFloat `json:"trajectory"`
}

// ExportJSON writes the run metadata together with the trajectory as [x, y]
// pairs. seed_index is -1 unless traj has the assembled 2*samples-1 length.
func ExportJSON(w io.Writer, meta RunMetadata, traj streamline.Trajectory) error {
	data := ExportData{
		RunMetadata: meta,
		SeedIndex:   -1,
		Trajectory:  make([][2]jsonFloat, len(traj)),
	}
	data.Points = len(traj)
	if meta.Samples > 0 && len(traj) == 2*meta.Samples-1 {
		data.SeedIndex = streamline.SeedIndex(meta.Samples)
	}
	for i, p := range traj {
		data.Trajectory[i] = [2]jsonFloat{jsonFloat(p.X), jsonFloat(p.Y)}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func ExportJSONFile(path string, meta RunMetadata, traj streamline.Trajectory) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := ExportJSON(f, meta, traj); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ExportCSV writes the trajectory as index,x,y rows with a header.
func ExportCSV(w io.Writer, traj streamline.Trajectory) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"index", "x", "y"}); err != nil {
		return err
	}
	for i, p := range traj {
		if err := cw.Write([]string{strconv.Itoa(i), formatFloat(p.X), formatFloat(p.Y)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
