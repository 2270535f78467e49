//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"slotbooker/internal/domain/client"
	"slotbooker/internal/handler/api"
	"slotbooker/internal/pkg/errs"
	"slotbooker/internal/pkg/money"
	"slotbooker/internal/usecase/commands"
	"slotbooker/internal/usecase/queries"
	"slotbooker/tests/common/httptest"
	"slotbooker/tests/common/testutil"
	commandsmock "slotbooker/tests/mock/commands"
	queriesmock "slotbooker/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type BookingHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockBookingCommands
	mockQueries  *queriesmock.MockBookingQueries
	handler      *api.BookingHandler
	clientID     uuid.UUID
}

func (s *BookingHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockBookingCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockBookingQueries(s.mockCtrl)
	s.handler = api.NewBookingHandler(s.mockCommands, s.mockQueries)
	s.clientID = uuid.New()

	// Mock authentication middleware for testing
	authMiddleware := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Set("client_id", s.clientID)
		c.Set("client_role", client.RoleClient)
		c.Next()
	}

	s.router.POST("/bookings", authMiddleware, s.handler.Book)
	s.router.GET("/bookings", authMiddleware, s.handler.ListBookings)
	s.router.GET("/bookings/:id", authMiddleware, s.handler.GetBooking)
	s.router.DELETE("/bookings/:id", authMiddleware, s.handler.Cancel)
}

func (s *BookingHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestBookingHandlerSuite(t *testing.T) {
	suite.Run(t, new(BookingHandlerTestSuite))
}

func (s *BookingHandlerTestSuite) bookRequestBody() map[string]any {
	return map[string]any{
		"slot_id": uuid.New().String(),
	}
}

func (s *BookingHandlerTestSuite) TestBook() {
	url := "/bookings"

	bookResult := &commands.BookSlotResult{
		BookingID:   uuid.New(),
		Status:      "pending",
		BaseAmount:  money.MustFromString("50.00"),
		Discount:    money.Zero(),
		TotalAmount: money.MustFromString("50.00"),
	}

	s.Run("success: returns 201 Created", func() {
		s.mockCommands.EXPECT().Book(gomock.Any(), gomock.Any()).
			Return(bookResult, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, s.bookRequestBody(), "bearer-token")

		var body map[string]any
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &body)
		s.Equal(bookResult.BookingID.String(), body["booking_id"])
		s.Equal("pending", body["status"])
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		cases := []struct {
			name   string
			mutate func(map[string]any)
		}{
			{name: "missing slot_id", mutate: testutil.Field("slot_id", nil)},
			{name: "malformed slot_id", mutate: testutil.Field("slot_id", "not-a-uuid")},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				body := testutil.DtoMap(s.T(), s.bookRequestBody(), tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
			})
		}
	})

	s.Run("error: 401 Unauthorized when unauthenticated", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, s.bookRequestBody(), "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Unauthorized")
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		cases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedMsg    string
		}{
			{
				name:           "slot not found",
				commandsError:  errs.Mark(errs.New("missing"), errs.ErrSlotNotFound),
				expectedStatus: http.StatusNotFound,
				expectedMsg:    "Slot not found",
			},
			{
				name:           "slot at capacity",
				commandsError:  errs.Mark(errs.New("full"), errs.ErrSlotNotAvailable),
				expectedStatus: http.StatusConflict,
				expectedMsg:    "capacity",
			},
			{
				name:           "promo not found",
				commandsError:  errs.Mark(errs.New("missing"), errs.ErrPromoNotFound),
				expectedStatus: http.StatusNotFound,
				expectedMsg:    "Promo",
			},
			{
				name:           "promo rejected",
				commandsError:  errs.Mark(errs.New("expired"), errs.ErrPromoExpired),
				expectedStatus: http.StatusUnprocessableEntity,
				expectedMsg:    "Promo",
			},
			{
				name:           "concurrency conflict",
				commandsError:  errs.Mark(errs.New("retry"), errs.ErrConcurrencyConflict),
				expectedStatus: http.StatusConflict,
				expectedMsg:    "concurrent",
			},
			{
				name:           "internal error",
				commandsError:  errors.New("database error"),
				expectedStatus: http.StatusInternalServerError,
				expectedMsg:    "Internal",
			},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().Book(gomock.Any(), gomock.Any()).
					Return(nil, tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, s.bookRequestBody(), "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}

func (s *BookingHandlerTestSuite) TestCancel() {
	bookingID := uuid.New()
	url := "/bookings/" + bookingID.String()

	s.Run("success: returns 204 No Content", func() {
		s.mockCommands.EXPECT().Cancel(gomock.Any(), bookingID, s.clientID, false).
			Return(nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, "bearer-token")
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("error: 400 on malformed booking id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, "/bookings/nope", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid booking ID")
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		cases := []struct {
			name           string
			commandsError  error
			expectedStatus int
		}{
			{"not found", errs.Mark(errs.New("missing"), errs.ErrBookingNotFound), http.StatusNotFound},
			{"forbidden", errs.Mark(errs.New("not owner"), errs.ErrBookingForbidden), http.StatusForbidden},
			{"already finalized", errs.Mark(errs.New("final"), errs.ErrBookingNotCancelable), http.StatusConflict},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().Cancel(gomock.Any(), bookingID, s.clientID, false).
					Return(tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, "")
			})
		}
	})
}

func (s *BookingHandlerTestSuite) TestGetBooking() {
	bookingID := uuid.New()
	url := "/bookings/" + bookingID.String()

	view := &queries.BookingView{
		ID:          bookingID,
		PlatformID:  uuid.New(),
		ClientID:    uuid.New(),
		ClientEmail: "client@example.com",
		StartsAt:    time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
		EndsAt:      time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
		BaseAmount:  money.MustFromString("50.00"),
		Discount:    money.Zero(),
		TotalAmount: money.MustFromString("50.00"),
		Status:      "confirmed",
	}

	s.Run("success: returns 200 OK", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.clientID, false, bookingID).
			Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")

		var body map[string]any
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(bookingID.String(), body["id"])
	})

	s.Run("error: access denials read as 404", func() {
		for _, qerr := range []error{queries.ErrBookingViewNotFound, queries.ErrBookingViewAccess} {
			s.mockQueries.EXPECT().GetByID(gomock.Any(), s.clientID, false, bookingID).
				Return(nil, qerr).Times(1)

			rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")
			httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Booking not found")
		}
	})
}

func (s *BookingHandlerTestSuite) TestListBookings() {
	url := "/bookings"

	items := []*queries.BookingListItem{
		{
			ID:          uuid.New(),
			StartsAt:    time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
			EndsAt:      time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
			TotalAmount: money.MustFromString("45.00"),
			Status:      "pending",
		},
	}

	s.Run("success: returns items for the current client", func() {
		s.mockQueries.EXPECT().ListByClient(gomock.Any(), s.clientID, nil, 0).
			Return(items, nil, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")

		var body map[string]any
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Len(body["items"], 1)
	})

	s.Run("success: forwards cursor and limit", func() {
		s.mockQueries.EXPECT().ListByClient(gomock.Any(), s.clientID, &queries.Cursor{After: "abc"}, 50).
			Return(nil, nil, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url+"?after=abc&limit=50", nil, "bearer-token")
		s.Equal(http.StatusOK, rec.Code)
	})
}
