package monitoring

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/piggybank/bank"
	"github.com/sarchlab/piggybank/sim"
)

// engineDriver runs commands directly on an engine that the test advances.
type engineDriver struct {
	engine *sim.SerialEngine
	paused bool
	inDo   bool
}

func (d *engineDriver) Do(f func()) {
	d.inDo = true
	defer func() { d.inDo = false }()

	f()
}

// outsideDoWriter remembers if the response was written while the driver
// was held.
type outsideDoWriter struct {
	*httptest.ResponseRecorder
	driver    *engineDriver
	wroteInDo bool
}

func (w *outsideDoWriter) Write(b []byte) (int, error) {
	if w.driver.inDo {
		w.wroteInDo = true
	}

	return w.ResponseRecorder.Write(b)
}

func (d *engineDriver) Pause() {
	d.paused = true
}

func (d *engineDriver) Continue() {
	d.paused = false
}

func (d *engineDriver) IsPaused() bool {
	return d.paused
}

func (d *engineDriver) CurrentTime() sim.VTimeInSec {
	return d.engine.CurrentTime()
}

type fixedClock struct{}

func (fixedClock) Now() time.Time {
	return time.Date(2024, 1, 1, 8, 30, 0, 0, time.UTC)
}

// pickSecond always draws the second option.
type pickSecond struct{}

func (pickSecond) Intn(n int) int {
	if n == 100 {
		return 99
	}

	return 1
}

var _ = Describe("Monitor", func() {
	var (
		engine *sim.SerialEngine
		driver *engineDriver
		pb     *bank.PiggyBank
		m      *Monitor
		router http.Handler
	)

	BeforeEach(func() {
		engine = sim.NewSerialEngine()
		driver = &engineDriver{engine: engine}
		pb = bank.MakeBuilder().
			WithEngine(engine).
			WithClock(fixedClock{}).
			WithRandomSource(pickSecond{}).
			Build("Bank")

		m = NewMonitor(pb, driver)
		for _, c := range pb.Components() {
			m.RegisterComponent(c)
		}

		router = m.Router()
	})

	request := func(method, url string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(method, url, nil)
		router.ServeHTTP(rec, req)

		return rec
	}

	decode := func(rec *httptest.ResponseRecorder, v any) {
		Expect(json.Unmarshal(rec.Body.Bytes(), v)).To(Succeed())
	}

	connect := func() {
		Expect(request(http.MethodPost, "/api/toggle").Code).
			To(Equal(http.StatusOK))
		Expect(engine.RunUntil(2)).To(Succeed())
	}

	It("should report the status", func() {
		rec := request(http.MethodGet, "/api/status")

		Expect(rec.Code).To(Equal(http.StatusOK))

		var rsp map[string]any
		decode(rec, &rsp)
		Expect(rsp["name"]).To(Equal("Bank"))
		Expect(rsp["state"]).To(Equal("Disconnected"))
		Expect(rsp["paused"]).To(BeFalse())
		Expect(rsp["calibration"]).To(BeNil())
	})

	It("should connect through toggle", func() {
		connect()

		var rsp map[string]any
		decode(request(http.MethodGet, "/api/status"), &rsp)

		Expect(rsp["state"]).To(Equal("Connected"))
		Expect(rsp["now"]).To(Equal(2.0))
	})

	It("should reject inserting while disconnected", func() {
		rec := request(http.MethodPost, "/api/insert")

		Expect(rec.Code).To(Equal(http.StatusConflict))

		var rsp commandRsp
		decode(rec, &rsp)
		Expect(rsp.OK).To(BeFalse())
		Expect(rsp.Error).To(ContainSubstring("no connection"))
	})

	It("should insert a coin and show it in the ledger", func() {
		connect()

		rec := request(http.MethodPost, "/api/insert")
		Expect(rec.Code).To(Equal(http.StatusOK))

		var cmd commandRsp
		decode(rec, &cmd)
		Expect(cmd.Coin).To(Equal("1 ruble"))

		var ledger ledgerRsp
		decode(request(http.MethodGet, "/api/ledger"), &ledger)
		Expect(ledger.Counts).To(Equal([bank.NumDenominations]uint64{0, 1, 0, 0, 0}))
		Expect(ledger.TotalCoins).To(Equal(uint64(1)))
		Expect(ledger.TotalAmount).To(Equal("1.00"))
		Expect(ledger.Denominations).To(HaveLen(bank.NumDenominations))
		Expect(ledger.Denominations[1].Count).To(Equal(uint64(1)))
	})

	It("should reset the ledger", func() {
		connect()
		request(http.MethodPost, "/api/insert")

		Expect(request(http.MethodPost, "/api/reset").Code).
			To(Equal(http.StatusOK))
		Expect(pb.Ledger().TotalCoins).To(BeZero())
	})

	It("should reject a second calibration", func() {
		connect()

		Expect(request(http.MethodPost, "/api/calibrate").Code).
			To(Equal(http.StatusOK))
		Expect(request(http.MethodPost, "/api/calibrate").Code).
			To(Equal(http.StatusConflict))

		var rsp map[string]any
		decode(request(http.MethodGet, "/api/status"), &rsp)
		Expect(rsp["calibration"]).NotTo(BeNil())
	})

	It("should list the activity log newest first", func() {
		connect()

		var rsp logRsp
		decode(request(http.MethodGet, "/api/log"), &rsp)

		Expect(rsp.Entries).To(HaveLen(2))
		Expect(rsp.Entries[0].Message).To(Equal(bank.MsgConnected))
		Expect(rsp.Entries[1].Message).To(Equal(bank.MsgConnecting))
		Expect(rsp.Entries[0].Time).To(Equal("08:30:00"))
		Expect(rsp.Text).To(Equal(pb.ActivityLog().Text()))
	})

	It("should pause and continue", func() {
		request(http.MethodGet, "/api/pause")
		Expect(driver.IsPaused()).To(BeTrue())

		request(http.MethodGet, "/api/continue")
		Expect(driver.IsPaused()).To(BeFalse())
	})

	It("should list components", func() {
		var names []string
		decode(request(http.MethodGet, "/api/list_components"), &names)

		Expect(names).To(ConsistOf(
			"Bank.Connection",
			"Bank.InsertionSimulator",
			"Bank.Calibration",
		))
	})

	It("should dump a component without holding the driver", func() {
		w := &outsideDoWriter{
			ResponseRecorder: httptest.NewRecorder(),
			driver:           driver,
		}
		req := httptest.NewRequest(http.MethodGet,
			"/api/component/Bank.Connection", nil)

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.Len()).To(BeNumerically(">", 0))
		Expect(w.wroteInDo).To(BeFalse())
	})

	It("should return 404 for unknown components", func() {
		rec := request(http.MethodGet, "/api/component/Nope")

		Expect(rec.Code).To(Equal(http.StatusNotFound))
	})

	It("should serve the web page", func() {
		rec := request(http.MethodGet, "/")

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(HavePrefix("<!DOCTYPE html>"))
	})

	It("should replace reserved port numbers with a random port", func() {
		m.WithPortNumber(80)

		Expect(m.portNumber).To(Equal(0))
	})
})
