package roles_test

import (
	"context"
	"errors"
	"testing"

	"github.com/okian/playstyle/internal/domain/model"
	"github.com/okian/playstyle/internal/domain/roles"
	. "github.com/smartystreets/goconvey/convey"
)

func TestClassifier_Admit(t *testing.T) {
	Convey("Given a classifier with the default threshold", t, func() {
		c := roles.NewClassifier()

		Convey("When a player splits minutes across positions", func() {
			apps := []model.Appearance{
				{PlayerID: 7, MatchID: 1, Position: "Left Wing", Minutes: 90},
				{PlayerID: 7, MatchID: 2, Position: "Center Forward", Minutes: 90},
				{PlayerID: 7, MatchID: 3, Position: "Center Forward", Minutes: 80},
				{PlayerID: 7, MatchID: 4, Position: "Unknown", Minutes: 500},
			}
			adm, err := c.Admit(7, apps)

			Convey("Then the most played mapped position decides the role", func() {
				So(err, ShouldBeNil)
				So(adm.Position, ShouldEqual, "Center Forward")
				So(adm.Role, ShouldEqual, roles.FW)
				So(adm.Minutes, ShouldEqual, 260)
			})
		})

		Convey("When minutes tie between positions", func() {
			apps := []model.Appearance{
				{PlayerID: 3, Position: "Right Back", Minutes: 180},
				{PlayerID: 3, Position: "Left Back", Minutes: 180},
			}
			adm, err := c.Admit(3, apps)

			Convey("Then the alphabetically first label wins", func() {
				So(err, ShouldBeNil)
				So(adm.Position, ShouldEqual, "Left Back")
				So(adm.Role, ShouldEqual, roles.FB)
			})
		})

		Convey("When a player is below the minutes threshold", func() {
			_, err := c.Admit(1, []model.Appearance{{PlayerID: 1, Position: "Goalkeeper", Minutes: 269}})
			So(errors.Is(err, roles.ErrNotAdmitted), ShouldBeTrue)
		})

		Convey("When only unmapped positions are present", func() {
			_, err := c.Admit(1, []model.Appearance{{PlayerID: 1, Position: "Substitute", Minutes: 900}})
			So(errors.Is(err, roles.ErrNotAdmitted), ShouldBeTrue)
		})
	})
}

func TestClassifier_Classify(t *testing.T) {
	Convey("Given appearances for several players", t, func() {
		apps := []model.Appearance{
			{PlayerID: 1, Position: "Goalkeeper", Minutes: 900},
			{PlayerID: 2, Position: "Center Back", Minutes: 90},
			{PlayerID: 3, Position: "Left Wing", Minutes: 300},
		}
		admitted := roles.NewClassifier().Classify(context.Background(), apps)

		Convey("Then only admitted players are returned", func() {
			So(len(admitted), ShouldEqual, 2)
			So(admitted[1].Role, ShouldEqual, roles.GK)
			So(admitted[3].Role, ShouldEqual, roles.W)
			counts := roles.CountByRole(admitted)
			So(counts[roles.GK], ShouldEqual, 1)
			So(counts[roles.CB], ShouldEqual, 0)
		})
	})

	Convey("Every role has names and positions", t, func() {
		for _, r := range roles.All() {
			So(r.Valid(), ShouldBeTrue)
			So(r.Name(), ShouldNotBeEmpty)
			So(r.Localized(), ShouldNotBeEmpty)
			So(len(roles.Positions(r)), ShouldBeGreaterThan, 0)
		}
		So(roles.Role("XX").Valid(), ShouldBeFalse)
	})
}
