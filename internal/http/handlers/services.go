package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/valyala/fasthttp"
	"gorm.io/gorm"

	"servicereg/internal/config"
	dbpkg "servicereg/internal/db"
)

func Healthcheck() fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(fasthttp.StatusOK)
		ctx.SetContentType("application/json")
		ctx.SetBodyString(`"Ok!"`)
	}
}

func ListServices(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		services, err := dbpkg.ListServices(db)
		if err != nil {
			errResponse(ctx, fasthttp.StatusInternalServerError, "failed to list services")
			return
		}

		resp := make([]serviceResponse, 0, len(services))
		for i := range services {
			resp = append(resp, newServiceResponse(&services[i]))
		}
		jsonResponse(ctx, fasthttp.StatusOK, resp)
	}
}

func GetService(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		id, ok := serviceID(ctx)
		if !ok {
			return
		}

		svc, err := dbpkg.GetService(db, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				errResponse(ctx, fasthttp.StatusNotFound, "service not found")
				return
			}
			errResponse(ctx, fasthttp.StatusInternalServerError, "failed to load service")
			return
		}

		jsonResponse(ctx, fasthttp.StatusOK, newServiceResponse(svc))
	}
}

// userID accepts both a JSON number and a quoted numeric string, since
// callers send the owning user id in either form.
type userID int64

func (u *userID) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("user must be an integer")
	}
	*u = userID(v)
	return nil
}

type createServiceRequest struct {
	Token    string  `json:"token"`
	Username string  `json:"username"`
	User     *userID `json:"user"`
	Status   string  `json:"status"`
	Cache    string  `json:"cache"`
}

func RegisterService(db *gorm.DB, cfg *config.Config) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		var payload createServiceRequest
		if err := json.Unmarshal(ctx.PostBody(), &payload); err != nil {
			errResponse(ctx, fasthttp.StatusBadRequest, "invalid JSON body")
			return
		}

		if payload.Token == "" {
			errResponse(ctx, fasthttp.StatusBadRequest, "token is required")
			return
		}
		if utf8.RuneCountInString(payload.Token) > 128 {
			errResponse(ctx, fasthttp.StatusBadRequest, "token must be at most 128 characters")
			return
		}
		if utf8.RuneCountInString(payload.Username) > 64 {
			errResponse(ctx, fasthttp.StatusBadRequest, "username must be at most 64 characters")
			return
		}
		if payload.User == nil {
			errResponse(ctx, fasthttp.StatusBadRequest, "user is required")
			return
		}

		status := dbpkg.StatusPending
		if payload.Status != "" {
			var ok bool
			if status, ok = dbpkg.ParseStatus(payload.Status); !ok {
				errResponse(ctx, fasthttp.StatusBadRequest, "invalid status")
				return
			}
		}

		cache := dbpkg.CacheNone
		if payload.Cache != "" {
			var ok bool
			if cache, ok = dbpkg.ParseCachePrivilege(payload.Cache); !ok {
				errResponse(ctx, fasthttp.StatusBadRequest, "invalid cache")
				return
			}
		}

		svc := &dbpkg.Service{
			Token:    payload.Token,
			Username: payload.Username,
			User:     int64(*payload.User),
			Status:   status,
			Cache:    cache,
		}

		if err := dbpkg.CreateService(db, svc, cfg.UserServicesLimit); err != nil {
			switch {
			case errors.Is(err, dbpkg.ErrUserServiceLimit):
				errResponse(ctx, fasthttp.StatusPaymentRequired, "user already owns the maximum number of services")
			case errors.Is(err, gorm.ErrDuplicatedKey):
				errResponse(ctx, fasthttp.StatusBadRequest, "a service with this token already exists")
			default:
				errResponse(ctx, fasthttp.StatusInternalServerError, "failed to create service")
			}
			return
		}

		jsonResponse(ctx, fasthttp.StatusCreated, newServiceResponse(svc))
	}
}

func UpdateServiceStatus(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		id, ok := serviceID(ctx)
		if !ok {
			return
		}

		status, ok := dbpkg.ParseStatus(string(ctx.QueryArgs().Peek("new_status")))
		if !ok {
			errResponse(ctx, fasthttp.StatusBadRequest, "invalid status")
			return
		}

		svc, err := dbpkg.SetServiceStatus(db, id, status)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				errResponse(ctx, fasthttp.StatusNotFound, "service not found")
				return
			}
			errResponse(ctx, fasthttp.StatusInternalServerError, "failed to update service")
			return
		}

		jsonResponse(ctx, fasthttp.StatusOK, newServiceResponse(svc))
	}
}

func UpdateServiceCache(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		id, ok := serviceID(ctx)
		if !ok {
			return
		}

		cache, ok := dbpkg.ParseCachePrivilege(string(ctx.QueryArgs().Peek("new_cache")))
		if !ok {
			errResponse(ctx, fasthttp.StatusBadRequest, "invalid cache")
			return
		}

		svc, err := dbpkg.SetServiceCache(db, id, cache)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				errResponse(ctx, fasthttp.StatusNotFound, "service not found")
				return
			}
			errResponse(ctx, fasthttp.StatusInternalServerError, "failed to update service")
			return
		}

		jsonResponse(ctx, fasthttp.StatusOK, newServiceResponse(svc))
	}
}

func DeleteService(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		id, ok := serviceID(ctx)
		if !ok {
			return
		}

		svc, err := dbpkg.DeleteService(db, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				errResponse(ctx, fasthttp.StatusNotFound, "service not found")
				return
			}
			errResponse(ctx, fasthttp.StatusInternalServerError, "failed to delete service")
			return
		}

		jsonResponse(ctx, fasthttp.StatusOK, newServiceResponse(svc))
	}
}
