package profile_test

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/ptt/internal/adapters/profile"
	"github.com/okian/ptt/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

const exportJSON = `{
  "player": {"username": "hikari", "totalPTT": 12.51, "best30Avg": 12.4, "recent10Avg": 12.8, "exportDate": "2024-05-01T10:00:00Z"},
  "best30": [
    {"songTitle": "Grievous Lady", "difficulty": "FTR", "difficultyIndex": 2, "score": 9912345, "constant": 11.3, "playPTT": 12.94, "rank": 1},
    {"songTitle": "Fracture Ray", "difficulty": "FTR", "difficultyIndex": 2, "score": 9800000, "constant": 11.2, "rank": 2}
  ],
  "recent10": [
    {"songTitle": "Unknown Chart", "difficulty": "BYD", "difficultyIndex": 3, "score": 9500000, "constant": null, "rank": 1}
  ]
}`

const flatYAML = `
player:
  username: tairitsu
results:
  - songTitle: Tempestissimo
    difficulty: BYD
    score: 9700000
    constant: 11.5
  - songTitle: Testify
    difficulty: 3
    score: 9650000
    constant: 12.0
`

func TestDecode(t *testing.T) {
	Convey("Given an exported JSON profile", t, func() {
		p, err := profile.Decode(strings.NewReader(exportJSON), profile.FormatJSON)

		Convey("Then both windows are decoded", func() {
			So(err, ShouldBeNil)
			So(p.Player.Username, ShouldEqual, "hikari")
			So(p.Best30, ShouldHaveLength, 2)
			So(p.Recent10, ShouldHaveLength, 1)
			So(p.Best30[0].Difficulty, ShouldEqual, model.Future)
			So(p.Recent10[0].HasConstant(), ShouldBeFalse)
		})
	})

	Convey("Given a flat YAML results list", t, func() {
		p, err := profile.Decode(strings.NewReader(flatYAML), profile.FormatYAML)

		Convey("Then it is partitioned and ranked", func() {
			So(err, ShouldBeNil)
			So(p.Player.Username, ShouldEqual, "tairitsu")
			So(p.Best30, ShouldHaveLength, 2)
			So(p.Recent10, ShouldBeEmpty)
			So(p.Best30[1].Difficulty, ShouldEqual, model.Beyond)
			So(p.Best30[1].Rank, ShouldEqual, 2)
		})
	})

	Convey("Given a flat list longer than 40 entries", t, func() {
		var b strings.Builder
		b.WriteString(`{"player":{"username":"x"},"results":[`)
		for i := 0; i < 45; i++ {
			if i > 0 {
				b.WriteString(",")
			}
			fmt.Fprintf(&b, `{"songTitle":"s%d","difficulty":"FTR","score":9800000,"constant":10.0}`, i)
		}
		b.WriteString(`]}`)

		p, err := profile.Decode(strings.NewReader(b.String()), profile.FormatJSON)

		Convey("Then entries beyond 40 are ignored", func() {
			So(err, ShouldBeNil)
			So(p.Best30, ShouldHaveLength, 30)
			So(p.Recent10, ShouldHaveLength, 10)
			So(p.Recent10[9].Title, ShouldEqual, "s39")
		})
	})

	Convey("Given broken documents", t, func() {
		_, err := profile.Decode(strings.NewReader(`{"player":`), profile.FormatJSON)
		So(errors.Is(err, profile.ErrDecode), ShouldBeTrue)

		_, err = profile.Decode(strings.NewReader(`{"best30":[{"difficulty":"HARD"}]}`), profile.FormatJSON)
		So(errors.Is(err, profile.ErrDecode), ShouldBeTrue)
		So(errors.Is(err, model.ErrUnknownDifficulty), ShouldBeTrue)

		_, err = profile.Decode(strings.NewReader(`{"player":{"username":"x"}}`), profile.FormatJSON)
		So(errors.Is(err, profile.ErrEmptyProfile), ShouldBeTrue)

		_, err = profile.Decode(strings.NewReader(``), profile.FormatYAML)
		So(errors.Is(err, profile.ErrEmptyProfile), ShouldBeTrue)

		_, err = profile.Decode(strings.NewReader(`{}`), profile.Format("toml"))
		So(errors.Is(err, profile.ErrUnsupportedFormat), ShouldBeTrue)
	})
}

func TestLoad(t *testing.T) {
	Convey("Given profile files on disk", t, func() {
		dir := t.TempDir()
		jsonPath := filepath.Join(dir, "me.json")
		yamlPath := filepath.Join(dir, "me.yml")
		So(os.WriteFile(jsonPath, []byte(exportJSON), 0o600), ShouldBeNil)
		So(os.WriteFile(yamlPath, []byte(flatYAML), 0o600), ShouldBeNil)

		Convey("When loading by extension", func() {
			pj, errJ := profile.Load(jsonPath)
			py, errY := profile.Load(yamlPath)

			Convey("Then the matching decoder is used", func() {
				So(errJ, ShouldBeNil)
				So(errY, ShouldBeNil)
				So(pj.Player.Username, ShouldEqual, "hikari")
				So(py.Player.Username, ShouldEqual, "tairitsu")
			})
		})

		Convey("When the extension is unknown", func() {
			_, err := profile.Load(filepath.Join(dir, "me.txt"))
			So(errors.Is(err, profile.ErrUnsupportedFormat), ShouldBeTrue)
		})

		Convey("When the file is missing", func() {
			_, err := profile.Load(filepath.Join(dir, "missing.json"))
			So(errors.Is(err, os.ErrNotExist), ShouldBeTrue)
		})
	})
}

func TestParseFormat(t *testing.T) {
	Convey("Given format names", t, func() {
		f, err := profile.ParseFormat("YML")
		So(err, ShouldBeNil)
		So(f, ShouldEqual, profile.FormatYAML)

		_, err = profile.ParseFormat("csv")
		So(errors.Is(err, profile.ErrUnsupportedFormat), ShouldBeTrue)
	})
}
