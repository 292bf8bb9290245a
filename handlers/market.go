package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"wealth-tracker/cache"
	"wealth-tracker/logger"
)

// GetSecurityPrice serves the latest close, from redis when cached and from
// the pricing table otherwise.
func (h *Handler) GetSecurityPrice(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	log := logger.FromContext(ctx)

	cached, err := h.prices.Get(ctx, id)
	if err == nil {
		c.JSON(http.StatusOK, gin.H{"securityId": id, "price": cached.Close, "date": cached.Date, "cached": true})
		return
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		log.Warn().Err(err).Uint("security_id", id).Msg("price cache unavailable")
	}

	latest, err := h.store.LatestSecurityPrice(ctx, id)
	if err != nil {
		fail(c, err)
		return
	}

	if err := h.prices.Set(ctx, cache.Price{SecurityID: id, Close: latest.Close, Date: latest.Date}); err != nil {
		log.Warn().Err(err).Uint("security_id", id).Msg("failed to cache price")
	}
	c.JSON(http.StatusOK, gin.H{"securityId": id, "price": latest.Close, "date": latest.Date, "cached": false})
}
