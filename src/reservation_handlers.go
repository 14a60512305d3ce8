package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gogonoten/johotel/src/common"
	"github.com/gogonoten/johotel/src/config"
	"github.com/gogonoten/johotel/src/middlewares"
	"github.com/gogonoten/johotel/src/reservations"
	"github.com/gogonoten/johotel/src/types"
	"go.uber.org/zap"
)

const guestsPerReservation = 1

func reservationHandlers(g *gin.RouterGroup, s *server) *gin.RouterGroup {
	g.
		POST("/reservations", func(ctx *gin.Context) {
			var body types.CreateReservationRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			checkIn, checkOut := body.CheckIn.UTC(), body.CheckOut.UTC()
			if !checkIn.Before(checkOut) {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "check_out must be after check_in"})
				return
			}
			if !checkOut.After(s.svc.Now()) {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "check_out must be in the future"})
				return
			}

			userID := middlewares.CurrentUserID(ctx)
			conf, err := s.svc.CreateReservation(ctx.Request.Context(), userID, body.RoomID, checkIn, checkOut)
			if err != nil {
				s.abortWithError(ctx, err)
				return
			}
			s.notify(common.NewCreatedEvent(conf, ctx.GetString(middlewares.KeyEmail), s.svc.Now()))

			ctx.JSON(http.StatusOK, gin.H{
				"message": "Booking confirmed",
				"data": types.APIResponseConfirmation{
					APIResponseReservation: types.APIResponseReservation{
						ID:          conf.Reservation.ID,
						RoomID:      conf.Reservation.RoomID,
						RoomNumber:  conf.RoomNumber,
						Category:    conf.Category,
						CheckIn:     conf.Reservation.CheckIn,
						CheckOut:    conf.Reservation.CheckOut,
						Nights:      conf.Nights,
						IsConfirmed: conf.Reservation.Confirmed,
						TotalPrice:  conf.TotalPrice.String(),
					},
					NumberOfGuests: guestsPerReservation,
					HotelName:      config.HotelName(),
				},
			})
		}).
		DELETE("/reservations/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userID := middlewares.CurrentUserID(ctx)
			if err := s.svc.Cancel(ctx.Request.Context(), userID, params.ID); err != nil {
				s.abortWithError(ctx, err)
				return
			}
			s.notify(common.NewCanceledEvent(userID, params.ID, s.svc.Now()))
			ctx.Status(http.StatusNoContent)
		}).
		GET("/reservations/my", func(ctx *gin.Context) {
			data, err := s.svc.ListForUser(ctx.Request.Context(), middlewares.CurrentUserID(ctx))
			if err != nil {
				s.abortWithError(ctx, err)
				return
			}
			out := reservationResponses(data, false)
			ctx.JSON(http.StatusOK, gin.H{"data": out, "count": len(out)})
		}).
		GET("/reservations/all", middlewares.RequireStaff, func(ctx *gin.Context) {
			data, err := s.svc.ListAll(ctx.Request.Context())
			if err != nil {
				s.abortWithError(ctx, err)
				return
			}
			out := reservationResponses(data, true)
			ctx.JSON(http.StatusOK, gin.H{"data": out, "count": len(out)})
		})
	return g
}

func reservationResponses(list []reservations.Listing, withUser bool) []types.APIResponseReservation {
	out := make([]types.APIResponseReservation, 0, len(list))
	for _, l := range list {
		r := l.Reservation
		item := types.APIResponseReservation{
			ID:          r.ID,
			RoomID:      r.RoomID,
			CheckIn:     r.CheckIn,
			CheckOut:    r.CheckOut,
			Nights:      l.Nights,
			IsConfirmed: r.Confirmed,
			TotalPrice:  l.TotalPrice.String(),
		}
		if r.Room != nil {
			item.RoomNumber = r.Room.RoomNumber
			item.Category = r.Room.Category
		}
		if withUser {
			item.User = &types.APIResponseUser{ID: r.UserID}
			if r.User != nil {
				item.User.Name = r.User.Name
				item.User.Email = r.User.Email
			}
		}
		out = append(out, item)
	}
	return out
}

// abortWithError maps engine outcomes to HTTP statuses. Anything that is
// not a decision outcome is logged and reported as a bare 500.
func (s *server) abortWithError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, reservations.ErrNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, reservations.ErrOverlap):
		ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, reservations.ErrForbidden):
		ctx.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, reservations.ErrTooLate), errors.Is(err, reservations.ErrInvalidStay):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		s.logger.Error("request failed", zap.String("path", ctx.FullPath()), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "something went wrong"})
	}
}

func (s *server) notify(event common.ReservationEvent) {
	if s.notifier == nil {
		return
	}
	common.NotifyAsync(s.notifier, event, s.logger)
}
