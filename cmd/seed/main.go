// cmd/seed bootstraps operator accounts and a room inventory so the
// system is usable on first deploy.
//
// Usage:
//
//	seed -admin-user admin -admin-pass secret \
//	     -coord-user frontdesk -coord-pass secret \
//	     -male-rooms 101-120 -female-rooms 201-220 -capacity 50
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/NaiduBugata/MahoAccom/internal/config"
	"github.com/NaiduBugata/MahoAccom/internal/database"
	"github.com/NaiduBugata/MahoAccom/internal/model"
	"github.com/NaiduBugata/MahoAccom/internal/repository"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	adminUser := flag.String("admin-user", "", "admin username (skipped when empty)")
	adminPass := flag.String("admin-pass", "", "admin password")
	coordUser := flag.String("coord-user", "", "coordinator username (skipped when empty)")
	coordPass := flag.String("coord-pass", "", "coordinator password")
	maleRooms := flag.String("male-rooms", "", "male room range, e.g. 101-120")
	femaleRooms := flag.String("female-rooms", "", "female room range, e.g. 201-220")
	capacity := flag.Int("capacity", 50, "capacity of each seeded room")
	flag.Parse()

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := database.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	if err := database.EnsureSchema(ctx, pool); err != nil {
		slog.Error("schema", "error", err)
		os.Exit(1)
	}

	users := repository.NewUserRepository(pool)
	rooms := repository.NewRoomRepository(pool)

	if *adminUser != "" {
		seedUser(ctx, users, *adminUser, *adminPass, model.RoleAdmin)
	}
	if *coordUser != "" {
		seedUser(ctx, users, *coordUser, *coordPass, model.RoleCoordinator)
	}
	if *maleRooms != "" {
		seedRooms(ctx, rooms, *maleRooms, model.Male, *capacity)
	}
	if *femaleRooms != "" {
		seedRooms(ctx, rooms, *femaleRooms, model.Female, *capacity)
	}
}

func seedUser(ctx context.Context, users *repository.UserRepository, username, password string, role model.Role) {
	if len(password) < 6 {
		slog.Error("password must be at least 6 characters", "username", username)
		os.Exit(1)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		slog.Error("hash password", "error", err)
		os.Exit(1)
	}
	u := &model.User{
		ID:           uuid.New().String(),
		Username:     strings.ToLower(strings.TrimSpace(username)),
		PasswordHash: string(hash),
		Name:         username,
		Role:         role,
		IsActive:     true,
	}
	if err := users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			slog.Info("user already exists, skipping", "username", u.Username)
			return
		}
		slog.Error("create user", "error", err)
		os.Exit(1)
	}
	slog.Info("created user", "username", u.Username, "role", role)
}

func seedRooms(ctx context.Context, rooms *repository.RoomRepository, spec string, gender model.Gender, capacity int) {
	first, last, err := parseRange(spec)
	if err != nil {
		slog.Error("parse room range", "range", spec, "error", err)
		os.Exit(1)
	}
	created := 0
	for n := first; n <= last; n++ {
		room := &model.Room{RoomNumber: n, Gender: gender, TotalCapacity: capacity}
		if err := rooms.Create(ctx, room); err != nil {
			if errors.Is(err, repository.ErrDuplicateRoom) {
				continue
			}
			slog.Error("create room", "room", n, "error", err)
			os.Exit(1)
		}
		created++
	}
	slog.Info("seeded rooms", "gender", gender, "range", spec, "created", created)
}

func parseRange(spec string) (first, last int, err error) {
	parts := strings.SplitN(spec, "-", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected FIRST-LAST, got %q", spec)
	}
	if first, err = strconv.Atoi(strings.TrimSpace(parts[0])); err != nil {
		return 0, 0, err
	}
	if last, err = strconv.Atoi(strings.TrimSpace(parts[1])); err != nil {
		return 0, 0, err
	}
	if first <= 0 || last < first {
		return 0, 0, fmt.Errorf("invalid range %q", spec)
	}
	return first, last, nil
}
