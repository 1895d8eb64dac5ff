package booking

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"github.com/craftingshard/tour-website-sub000/db"
	"github.com/craftingshard/tour-website-sub000/globals"
	"github.com/craftingshard/tour-website-sub000/middleware"
	"github.com/craftingshard/tour-website-sub000/models"
	"github.com/craftingshard/tour-website-sub000/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
	"go.mongodb.org/mongo-driver/bson"
)

var receiptSecret = []byte(globals.Getenv("RECEIPT_SECRET", "receipt-signing-key"))

// signReceipt returns "bookingId|tourId|signature" for QR verification at
// the meeting point.
func signReceipt(bookingID, tourID string) string {
	data := fmt.Sprintf("%s|%s", bookingID, tourID)
	h := hmac.New(sha256.New, receiptSecret)
	h.Write([]byte(data))
	sig := base64.StdEncoding.EncodeToString(h.Sum(nil))
	return fmt.Sprintf("%s|%s", data, sig)
}

func verifyReceiptPayload(bookingID, tourID, sig string) bool {
	data := fmt.Sprintf("%s|%s", bookingID, tourID)
	h := hmac.New(sha256.New, receiptSecret)
	h.Write([]byte(data))
	want := base64.StdEncoding.EncodeToString(h.Sum(nil))
	return hmac.Equal([]byte(want), []byte(sig))
}

// PrintReceipt renders a PDF receipt with a signed QR code for the caller's
// booking. Only the booking owner can download it.
func PrintReceipt(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID, ok := middleware.UserID(ctx)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	bookingID := ps.ByName("id")
	var b models.Booking
	if err := db.BookingsCollection.FindOne(ctx, bson.M{"id": bookingID}).Decode(&b); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "booking not found")
		return
	}
	if b.UserID != userID {
		utils.RespondWithError(w, http.StatusForbidden, "Forbidden")
		return
	}

	var tour models.Tour
	_ = db.ToursCollection.FindOne(ctx, bson.M{"id": b.TourID}).Decode(&tour)

	qrPNG, err := qrcode.Encode(signReceipt(b.ID, b.TourID), qrcode.Medium, 256)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate QR code")
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Booking Receipt")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 10, fmt.Sprintf("Booking: %s", b.ID))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Tour: %s", tour.Title))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Name: %s", middleware.Username(ctx)))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Start: %s", time.UnixMilli(b.StartDate).Format("2006-01-02")))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("People: %d", b.People))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Amount: %d (%s)", b.Amount, b.Method))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Status: %s", b.Status))
	pdf.Ln(12)

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 150, 40, 40, 40, false, imageOpts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate PDF")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=booking-"+b.ID+".pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// VerifyReceipt checks a scanned QR payload against the signature and the
// booking record. Used by guides at the meeting point.
func VerifyReceipt(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	q := r.URL.Query()
	bookingID, tourID, sig := q.Get("bookingId"), q.Get("tourId"), q.Get("sig")
	if bookingID == "" || tourID == "" || sig == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "missing params")
		return
	}

	if !verifyReceiptPayload(bookingID, tourID, sig) {
		utils.RespondWithJSON(w, http.StatusOK, map[string]any{"ok": false, "reason": "bad-signature"})
		return
	}

	var b models.Booking
	if err := db.BookingsCollection.FindOne(ctx, bson.M{"id": bookingID, "tourId": tourID}).Decode(&b); err != nil {
		utils.RespondWithJSON(w, http.StatusOK, map[string]any{"ok": false, "reason": "not-found"})
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"ok": true, "status": b.Status, "paid": b.Paid})
}
