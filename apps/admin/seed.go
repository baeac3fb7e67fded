package main

import (
	"context"
	"time"

	"github.com/aimelive/mcsa-awards/core"
	"github.com/aimelive/mcsa-awards/core/profile"
	"github.com/aimelive/mcsa-awards/core/season"
	"github.com/aimelive/mcsa-awards/core/user"
)

const (
	seedEmail = "aimendayambaje24@gmail.com"
	// bcrypt hash of the bootstrap password
	seedPasswordHash = "$2b$10$3LgMdSM8Up/PSZ5VxpR3pOLVOYrv9hDaYVYJg.Du4jZBwrA.PvFhi"
	seedProfilePic   = "https://res.cloudinary.com/dofeqwgfb/image/upload/v1691660367/FlipSide-Hosting-Images/tmcql2lcsd4bwfvdsegq.jpg"
)

// seed creates the bootstrap SUPER_ADMIN account with its profile and the
// current season. Existing records are left untouched.
func (cli *commandLine) seed() error {
	ctx := context.Background()
	now := time.Now().UTC()

	usr, err := cli.usrRepo.GetUserByEmail(ctx, seedEmail)
	if err != nil {
		if !core.IsNotFound(err) {
			return err
		}
		usr = user.User{
			FirstName:    "Aime",
			LastName:     "Ndayambaje",
			Email:        seedEmail,
			PasswordHash: []byte(seedPasswordHash),
			Role:         user.RoleSuperAdmin,
			Status:       user.StatusActive,
			Verified:     true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if usr, err = cli.usrRepo.CreateUser(ctx, usr); err != nil {
			return err
		}
		logger.Printf("created super admin %s", usr.Email)
	}

	if _, err := cli.profRepo.GetProfileByUserID(ctx, usr.ID); err != nil {
		if !core.IsNotFound(err) {
			return err
		}
		prof := profile.Profile{
			Username:   "aimelive250",
			Bio:        "The best rapper you should know",
			ProfilePic: seedProfilePic,
			UserID:     usr.ID,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if _, err := cli.profRepo.CreateProfile(ctx, prof); err != nil {
			return err
		}
		logger.Printf("created profile %s", prof.Username)
	}

	if _, err := cli.seasonRepo.GetSeasonByName(ctx, season.Season3); err != nil {
		if !core.IsNotFound(err) {
			return err
		}
		s := season.Season{
			Name:      season.Season3,
			Date:      time.Date(2023, time.May, 5, 0, 0, 0, 0, time.UTC),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if _, err := cli.seasonRepo.CreateSeason(ctx, s); err != nil {
			return err
		}
		logger.Printf("created season %s", s.Name)
	}
	return nil
}
