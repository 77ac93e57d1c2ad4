package model_test

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/okian/ptt/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func charts(n int) []model.Chart {
	out := make([]model.Chart, n)
	for i := range out {
		c := 10.0
		out[i] = model.Chart{Title: fmt.Sprintf("song-%02d", i), Difficulty: model.Future, Constant: &c, Score: 9_800_000}
	}
	return out
}

func TestPartition(t *testing.T) {
	Convey("Given a flat list of 45 results", t, func() {
		top, recent := model.Partition(charts(45))

		Convey("Then the first 30 go to the top window and the next 10 to recent", func() {
			So(top, ShouldHaveLength, 30)
			So(recent, ShouldHaveLength, 10)
			So(top[29].Title, ShouldEqual, "song-29")
			So(recent[0].Title, ShouldEqual, "song-30")
			So(recent[9].Title, ShouldEqual, "song-39")
		})
	})

	Convey("Given fewer results than the top window", t, func() {
		top, recent := model.Partition(charts(12))

		Convey("Then the recent window stays empty", func() {
			So(top, ShouldHaveLength, 12)
			So(recent, ShouldBeEmpty)
		})
	})
}

func TestProfileNormalize(t *testing.T) {
	Convey("Given a profile with only flat results", t, func() {
		p := model.Profile{Results: charts(33)}
		p.Normalize()

		Convey("Then the windows are filled and ranks assigned", func() {
			So(p.Results, ShouldBeNil)
			So(p.Best30, ShouldHaveLength, 30)
			So(p.Recent10, ShouldHaveLength, 3)
			So(p.Best30[0].Rank, ShouldEqual, 1)
			So(p.Recent10[2].Rank, ShouldEqual, 3)
		})
	})

	Convey("Given a profile that already has windows", t, func() {
		top := charts(2)
		top[1].Rank = 7
		p := model.Profile{Best30: top, Results: charts(5)}
		p.Normalize()

		Convey("Then the windows are kept and explicit ranks preserved", func() {
			So(p.Best30, ShouldHaveLength, 2)
			So(p.Best30[0].Rank, ShouldEqual, 1)
			So(p.Best30[1].Rank, ShouldEqual, 7)
			So(p.Results, ShouldHaveLength, 5)
		})
	})

	Convey("Given an empty profile", t, func() {
		p := model.Profile{}
		So(p.Empty(), ShouldBeTrue)
	})
}

func TestProfileDecode(t *testing.T) {
	Convey("Given an exported profile document", t, func() {
		doc := `{
			"player": {"username": "hikari", "totalPTT": 12.34, "exportDate": "2024-05-01T10:00:00Z"},
			"best30": [{"songTitle": "Grievous Lady", "difficulty": "FTR", "difficultyIndex": 2, "score": 9912345, "constant": 11.3, "rank": 1}],
			"recent10": [{"songTitle": "Unknown", "difficulty": 3, "score": 9000000, "constant": null}]
		}`

		var p model.Profile
		err := json.Unmarshal([]byte(doc), &p)

		Convey("Then charts decode with optional constants", func() {
			So(err, ShouldBeNil)
			So(p.Player.Username, ShouldEqual, "hikari")
			So(*p.Player.TotalPTT, ShouldEqual, 12.34)
			So(p.Player.ExportDate.Year(), ShouldEqual, 2024)
			So(p.Best30[0].Title, ShouldEqual, "Grievous Lady")
			So(p.Best30[0].Difficulty, ShouldEqual, model.Future)
			So(p.Best30[0].HasConstant(), ShouldBeTrue)
			So(p.Recent10[0].Difficulty, ShouldEqual, model.Beyond)
			So(p.Recent10[0].HasConstant(), ShouldBeFalse)
		})
	})
}
