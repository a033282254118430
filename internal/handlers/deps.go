package handlers

import (
	"log/slog"

	"firebase.google.com/go/v4/auth"

	"github.com/radek-zitek-cloud/hsh-alfa-sub000/internal/response"
)

type Deps struct {
	Log             *slog.Logger
	ResponseHandler response.ResponseHandler
	Firebase        *auth.Client
	WidgetsSvc      WidgetsService
	HabitsSvc       HabitsService
	SettingsSvc     SettingsService
	UserSvc         UserService
}
