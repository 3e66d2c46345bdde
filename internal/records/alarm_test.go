package records

import (
	"testing"

	"github.com/agsys/pcmi-client/internal/protocol"
)

func TestParseAlarmListHighTempAlarm(t *testing.T) {
	// header: zone=1 reserved=00 total_count=0001
	// record: id=0001 type=01(HighTemp) zone=01 device_index=0000 state=01
	//         reserved=00 triggered=00000000 cleared=00000000 value=02D0(720) threshold=0000
	hexData := "01" + "00" + "0001" +
		"0001" + "01" + "01" + "0000" + "01" + "00" +
		"00000000" + "00000000" + "02D0" + "0000"

	list, err := ParseAlarmList(hexData, protocol.Big)
	if err != nil {
		t.Fatalf("ParseAlarmList() error = %v", err)
	}
	if len(list.Alarms) != 1 {
		t.Fatalf("len(Alarms) = %d, want 1", len(list.Alarms))
	}
	alarm := list.Alarms[0]
	if !alarm.IsTemperatureAlarm() {
		t.Fatalf("IsTemperatureAlarm() = false, want true")
	}
	temp, ok := alarm.TemperatureValue()
	if !ok {
		t.Fatalf("TemperatureValue() ok = false")
	}
	f, ok := temp.Fahrenheit()
	if !ok || f != 72.0 {
		t.Errorf("TemperatureValue().Fahrenheit() = (%v, %v), want (72.0, true)", f, ok)
	}
	if alarm.ClearedAt != nil {
		t.Errorf("ClearedAt = %v, want nil (cleared_minutes == 0)", alarm.ClearedAt)
	}
}

func TestAlarmListActiveAlarms(t *testing.T) {
	hexData := "01" + "00" + "0002" +
		"0001" + "01" + "01" + "0000" + "01" + "00" + "00000000" + "00000000" + "0000" + "0000" +
		"0002" + "01" + "01" + "0000" + "03" + "00" + "00000000" + "00000000" + "0000" + "0000"

	list, err := ParseAlarmList(hexData, protocol.Big)
	if err != nil {
		t.Fatalf("ParseAlarmList() error = %v", err)
	}
	active := list.ActiveAlarms()
	if len(active) != 1 {
		t.Fatalf("len(ActiveAlarms()) = %d, want 1", len(active))
	}
	if active[0].AlarmID != 1 {
		t.Errorf("active alarm id = %d, want 1", active[0].AlarmID)
	}
}
