package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gogonoten/johotel/src/models"
	"github.com/gogonoten/johotel/src/reservations"
	"github.com/gogonoten/johotel/src/types"
)

const (
	bookedSpansLookBack  = 30 * 24 * time.Hour
	bookedSpansLookAhead = 120 * 24 * time.Hour
)

func roomHandlers(g *gin.RouterGroup, s *server) *gin.RouterGroup {
	g.
		GET("/rooms", func(ctx *gin.Context) {
			var query types.RangeQueryParams
			if err := ctx.ShouldBindQuery(&query); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			now := s.svc.Now()
			from, to := withDefaults(query, now, now.Add(24*time.Hour))
			if !from.Before(to) {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "to must be after from"})
				return
			}
			list, err := s.svc.RoomAvailability(ctx.Request.Context(), from, to)
			if err != nil {
				s.abortWithError(ctx, err)
				return
			}
			data := make([]types.APIResponseRoom, 0, len(list))
			for _, a := range list {
				available := a.Available
				room := s.roomResponse(a.Room)
				room.IsAvailable = &available
				data = append(data, room)
			}
			ctx.JSON(http.StatusOK, gin.H{"data": data, "count": len(data)})
		}).
		GET("/rooms/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			room, err := s.svc.Room(ctx.Request.Context(), params.ID)
			if err != nil {
				s.abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": s.roomResponse(*room)})
		}).
		GET("/rooms/:id/quote", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var query types.QuoteQueryParams
			if err := ctx.ShouldBindQuery(&query); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			quote, err := s.svc.Quote(ctx.Request.Context(), params.ID, query.CheckIn.UTC(), query.CheckOut.UTC())
			if errors.Is(err, reservations.ErrInvalidStay) {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			if err != nil {
				s.abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": types.APIResponseQuote{
				RoomID:     quote.Room.ID,
				Category:   quote.Room.Category,
				Nights:     quote.Nights,
				TotalPrice: quote.TotalPrice.String(),
			}})
		}).
		GET("/rooms/:id/booked", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var query types.RangeQueryParams
			if err := ctx.ShouldBindQuery(&query); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			now := s.svc.Now()
			from, to := withDefaults(query, now.Add(-bookedSpansLookBack), now.Add(bookedSpansLookAhead))
			spans, err := s.svc.BookedSpans(ctx.Request.Context(), params.ID, from, to)
			if err != nil {
				s.abortWithError(ctx, err)
				return
			}
			data := make([]types.APIResponseSpan, 0, len(spans))
			for _, r := range spans {
				data = append(data, types.APIResponseSpan{CheckIn: r.CheckIn, CheckOut: r.CheckOut})
			}
			ctx.JSON(http.StatusOK, gin.H{"data": data, "count": len(data)})
		})
	return g
}

func (s *server) roomResponse(room models.Room) types.APIResponseRoom {
	out := types.APIResponseRoom{
		ID:         room.ID,
		RoomNumber: room.RoomNumber,
		Category:   room.Category,
		Label:      room.Category.DisplayName(),
	}
	if base, ok := s.svc.BaseRate(room.Category); ok {
		out.BasePrice = base.String()
	}
	return out
}

func withDefaults(q types.RangeQueryParams, from, to time.Time) (time.Time, time.Time) {
	if !q.From.IsZero() {
		from = q.From
	}
	if !q.To.IsZero() {
		to = q.To
	}
	return from.UTC(), to.UTC()
}
