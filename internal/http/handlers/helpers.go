package handlers

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/valyala/fasthttp"

	dbpkg "servicereg/internal/db"
)

// serviceResponse is the wire representation of a service record. It
// is the only shape handlers ever return for a record.
type serviceResponse struct {
	ID          uint   `json:"id"`
	Token       string `json:"token"`
	Username    string `json:"username"`
	User        int64  `json:"user"`
	Status      string `json:"status"`
	Cache       string `json:"cache"`
	CreatedTime string `json:"created_time"`
}

func newServiceResponse(svc *dbpkg.Service) serviceResponse {
	return serviceResponse{
		ID:          svc.ID,
		Token:       svc.Token,
		Username:    svc.Username,
		User:        svc.User,
		Status:      string(svc.Status),
		Cache:       string(svc.Cache),
		CreatedTime: svc.CreatedTime.Format(time.RFC3339Nano),
	}
}

func jsonResponse(ctx *fasthttp.RequestCtx, code int, data any) {
	ctx.SetStatusCode(code)
	ctx.SetContentType("application/json")
	body, _ := json.Marshal(data)
	ctx.SetBody(body)
}

func errResponse(ctx *fasthttp.RequestCtx, code int, msg string) {
	ctx.SetStatusCode(code)
	ctx.SetBodyString(msg)
}

// serviceID extracts and parses the {id} path parameter. On failure it
// sends 400 and returns (0, false).
func serviceID(ctx *fasthttp.RequestCtx) (uint, bool) {
	idVal := ctx.UserValue("id")
	if idVal == nil {
		errResponse(ctx, fasthttp.StatusBadRequest, "id required")
		return 0, false
	}
	idStr, ok := idVal.(string)
	if !ok {
		errResponse(ctx, fasthttp.StatusBadRequest, "invalid id")
		return 0, false
	}
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || id == 0 {
		errResponse(ctx, fasthttp.StatusBadRequest, "invalid id")
		return 0, false
	}
	return uint(id), true
}
