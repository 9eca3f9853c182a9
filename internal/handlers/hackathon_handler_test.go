package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/anonto42/hackmate/backend/internal/gamification"
	"github.com/anonto42/hackmate/backend/internal/models"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type hackathonFixture struct {
	e          *echo.Echo
	handler    *HackathonHandler
	hackathons *memHackathons
	teams      *memTeams
	rewards    *recordingRewards
	hackathon  models.Hackathon
	team       models.Team
	now        time.Time
}

func newHackathonFixture(mutate func(*models.Hackathon)) *hackathonFixture {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f := &hackathonFixture{
		now: now,
		hackathon: models.Hackathon{
			ID:                   primitive.NewObjectID(),
			Title:                "Spring Hack",
			HostedBy:             9,
			RegistrationDeadline: now.Add(48 * time.Hour),
			IsOnline:             true,
			WhatsappLink:         "https://chat.whatsapp.com/spring",
			MaxTeams:             2,
			Status:               models.HackathonUpcoming,
		},
		team:    models.Team{ID: primitive.NewObjectID(), Name: "Owls", OwnerID: 1, Members: []uint{1, 2}},
		rewards: newRecordingRewards(),
	}
	if mutate != nil {
		mutate(&f.hackathon)
	}
	f.hackathons = newMemHackathons(f.hackathon)
	f.teams = newMemTeams(f.team)
	users := newMemUsers(models.User{ID: 9, Name: "Host"})

	f.handler = NewHackathonHandler(f.hackathons, f.teams, users, f.rewards)
	f.handler.now = func() time.Time { return f.now }
	f.e = newTestEcho()
	f.handler.RegisterHackathonRoutes(f.e.Group("/api/hackathons", asUser), requireUser)
	return f
}

func (f *hackathonFixture) join(t *testing.T, userID uint, teamID primitive.ObjectID) response {
	t.Helper()
	return doRequest(t, f.e, http.MethodPost, "/api/hackathons/"+f.hackathon.ID.Hex()+"/join", userID, echo.Map{"team_id": teamID.Hex()})
}

func TestJoinHackathonRegistersTeam(t *testing.T) {
	f := newHackathonFixture(nil)

	res := f.join(t, 2, f.team.ID)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "Successfully joined hackathon", messageOf(res))
	assert.Equal(t, "https://chat.whatsapp.com/spring", res.Body["whatsappLink"])

	team, err := f.teams.GetTeamByID(context.Background(), f.team.ID.Hex())
	require.NoError(t, err)
	require.NotNil(t, team.HackathonID)
	assert.Equal(t, f.hackathon.ID, *team.HackathonID)

	assert.ElementsMatch(t, []rewardCall{
		{UserID: 1, Event: gamification.EventHackathonParticipated},
		{UserID: 2, Event: gamification.EventHackathonParticipated},
	}, f.rewards.events)

	res = f.join(t, 1, f.team.ID)
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, "Team already joined this hackathon", messageOf(res))
}

func TestJoinOfflineHackathonHidesWhatsappLink(t *testing.T) {
	f := newHackathonFixture(func(h *models.Hackathon) { h.IsOnline = false })

	res := f.join(t, 1, f.team.ID)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Nil(t, res.Body["whatsappLink"])
}

func TestJoinHackathonRejections(t *testing.T) {
	t.Run("deadline passed", func(t *testing.T) {
		f := newHackathonFixture(nil)
		f.now = f.hackathon.RegistrationDeadline.Add(time.Minute)

		res := f.join(t, 1, f.team.ID)
		assert.Equal(t, http.StatusBadRequest, res.Code)
		assert.Equal(t, "Registration deadline has passed", messageOf(res))
	})

	t.Run("full", func(t *testing.T) {
		f := newHackathonFixture(func(h *models.Hackathon) {
			h.MaxTeams = 1
			h.ParticipatingTeams = []primitive.ObjectID{primitive.NewObjectID()}
		})

		res := f.join(t, 1, f.team.ID)
		assert.Equal(t, http.StatusBadRequest, res.Code)
		assert.Equal(t, "Hackathon is full", messageOf(res))
	})

	t.Run("not a member", func(t *testing.T) {
		f := newHackathonFixture(nil)

		res := f.join(t, 5, f.team.ID)
		assert.Equal(t, http.StatusForbidden, res.Code)
	})

	t.Run("unknown team", func(t *testing.T) {
		f := newHackathonFixture(nil)

		res := f.join(t, 1, primitive.NewObjectID())
		assert.Equal(t, http.StatusNotFound, res.Code)
	})

	t.Run("unknown hackathon", func(t *testing.T) {
		f := newHackathonFixture(nil)

		res := doRequest(t, f.e, http.MethodPost, "/api/hackathons/"+primitive.NewObjectID().Hex()+"/join", 1, echo.Map{"team_id": f.team.ID.Hex()})
		assert.Equal(t, http.StatusNotFound, res.Code)
	})
}

func TestLeaveHackathonOwnerOnly(t *testing.T) {
	f := newHackathonFixture(nil)
	require.Equal(t, http.StatusOK, f.join(t, 1, f.team.ID).Code)
	url := "/api/hackathons/" + f.hackathon.ID.Hex() + "/leave"

	res := doRequest(t, f.e, http.MethodPost, url, 2, echo.Map{"team_id": f.team.ID.Hex()})
	assert.Equal(t, http.StatusForbidden, res.Code)

	res = doRequest(t, f.e, http.MethodPost, url, 1, echo.Map{"team_id": f.team.ID.Hex()})
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "Successfully left hackathon", messageOf(res))

	hackathon, err := f.hackathons.GetHackathonByID(context.Background(), f.hackathon.ID.Hex())
	require.NoError(t, err)
	assert.Empty(t, hackathon.ParticipatingTeams)
	team, err := f.teams.GetTeamByID(context.Background(), f.team.ID.Hex())
	require.NoError(t, err)
	assert.Nil(t, team.HackathonID)
}

func TestCreateHackathonAppliesDefaults(t *testing.T) {
	f := newHackathonFixture(nil)
	start := f.now.Add(7 * 24 * time.Hour)

	res := doRequest(t, f.e, http.MethodPost, "/api/hackathons", 4, echo.Map{
		"title":                 "Autumn Hack",
		"organizer":             "HackMate",
		"start_date":            start,
		"end_date":              start.Add(48 * time.Hour),
		"registration_deadline": start.Add(-time.Hour),
		"description":           "Build things",
		"theme":                 "Climate",
		"eligibility":           "Students",
	})
	require.Equal(t, http.StatusCreated, res.Code)
	assert.EqualValues(t, models.DefaultMaxTeams, res.Body["max_teams"])
	assert.Equal(t, "upcoming", res.Body["status"])
	assert.Equal(t, "Online", res.Body["location"])
	assert.Equal(t, true, res.Body["is_online"])
	assert.EqualValues(t, 4, res.Body["hosted_by"])
}

func TestHostOnlyHackathonChanges(t *testing.T) {
	f := newHackathonFixture(nil)
	url := "/api/hackathons/" + f.hackathon.ID.Hex()

	res := doRequest(t, f.e, http.MethodDelete, url, 1, nil)
	assert.Equal(t, http.StatusForbidden, res.Code)

	require.Equal(t, http.StatusOK, f.join(t, 1, f.team.ID).Code)
	res = doRequest(t, f.e, http.MethodDelete, url, 9, nil)
	require.Equal(t, http.StatusOK, res.Code)

	team, err := f.teams.GetTeamByID(context.Background(), f.team.ID.Hex())
	require.NoError(t, err)
	assert.Nil(t, team.HackathonID)
}

func TestListHackathonsFilters(t *testing.T) {
	f := newHackathonFixture(nil)

	res := doRequest(t, f.e, http.MethodGet, "/api/hackathons?isOnline=maybe", 0, nil)
	assert.Equal(t, http.StatusBadRequest, res.Code)

	res = doRequest(t, f.e, http.MethodGet, "/api/hackathons?isOnline=false", 0, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "[]", string(trimmed(res.Raw)))

	res = doRequest(t, f.e, http.MethodGet, "/api/hackathons?isOnline=true", 0, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, string(res.Raw), "Spring Hack")
	assert.Contains(t, string(res.Raw), `"host":{"id":9,"name":"Host"`)
}

func trimmed(b []byte) []byte {
	for len(b) > 0 && (b[len(b)-1] == '\n' || b[len(b)-1] == ' ') {
		b = b[:len(b)-1]
	}
	return b
}
