package ccutest

// Fixture documents describe a small installation:
//
//	device 1000 "Thermostat Kitchen" with channels 1001 (maintenance) and 1004 (climate)
//	device 2000 "Window Contact" with channel 2001 and channel 3001, whose
//	parent_device 9999 does not exist
//
// Channel 1004 is in rooms Kitchen and Living, 2001 only in Living.
// Datapoint 1008 carries a non-numeric value and datapoint 1003 an empty one.
const (
	DeviceListXML = `<?xml version="1.0" encoding="ISO-8859-1" ?>
<deviceList>
  <device name="Thermostat Kitchen" address="OEQ0000001" ise_id="1000" interface="BidCos-RF" device_type="HM-CC-RT-DN" ready_config="true">
    <channel name="Thermostat Kitchen:0" type="30" address="OEQ0000001:0" ise_id="1001" direction="UNKNOWN" parent_device="1000" index="0" visible="true" operate="true"/>
    <channel name="Thermostat Kitchen:4" type="31" address="OEQ0000001:4" ise_id="1004" direction="RECEIVER" parent_device="1000" index="4" visible="true" operate="true"/>
  </device>
  <device name="Window Contact" address="NEQ0000002" ise_id="2000" interface="BidCos-RF" device_type="HM-Sec-SCo" ready_config="true">
    <channel name="Window Contact:1" type="37" address="NEQ0000002:1" ise_id="2001" direction="SENDER" parent_device="2000" index="1" visible="true" operate="true"/>
    <channel name="Orphan" type="37" address="XXX0000009:1" ise_id="3001" direction="SENDER" parent_device="9999" index="1" visible="true" operate="true"/>
  </device>
</deviceList>`

	RoomListXML = `<?xml version="1.0" encoding="ISO-8859-1" ?>
<roomList>
  <room name="Kitchen" ise_id="5001">
    <channel ise_id="1004"/>
  </room>
  <room name="Living" ise_id="5002">
    <channel ise_id="1004"/>
    <channel ise_id="2001"/>
  </room>
  <room name="Bath" ise_id="5003"/>
</roomList>`

	FunctionListXML = `<?xml version="1.0" encoding="ISO-8859-1" ?>
<functionList>
  <function name="Heating" description="" ise_id="6001">
    <channel address="OEQ0000001:4" ise_id="1004"/>
  </function>
  <function name="Security" description="" ise_id="6002">
    <channel address="NEQ0000002:1" ise_id="2001"/>
  </function>
</functionList>`

	StateListXML = `<?xml version="1.0" encoding="ISO-8859-1" ?>
<stateList>
  <device name="Thermostat Kitchen" ise_id="1000" unreach="false" config_pending="false">
    <channel name="Thermostat Kitchen:0" ise_id="1001">
      <datapoint name="BidCos-RF.OEQ0000001:0.UNREACH" type="UNREACH" ise_id="1002" value="false" valuetype="2" valueunit="" timestamp="1700000000" operations="5"/>
      <datapoint name="BidCos-RF.OEQ0000001:0.RSSI_DEVICE" type="RSSI_DEVICE" ise_id="1003" value="" valuetype="8" valueunit="" timestamp="0" operations="5"/>
    </channel>
    <channel name="Thermostat Kitchen:4" ise_id="1004">
      <datapoint name="BidCos-RF.OEQ0000001:4.ACTUAL_TEMPERATURE" type="ACTUAL_TEMPERATURE" ise_id="1005" value="21.5" valuetype="4" valueunit="C" timestamp="1700000000" operations="5"/>
      <datapoint name="BidCos-RF.OEQ0000001:4.SET_TEMPERATURE" type="SET_TEMPERATURE" ise_id="1006" value="20.000000" valuetype="4" valueunit="C" timestamp="1700000000" operations="7"/>
      <datapoint name="BidCos-RF.OEQ0000001:4.FAULT_REPORTING" type="FAULT_REPORTING" ise_id="1008" value="N/A" valuetype="16" valueunit="" timestamp="1700000000" operations="5"/>
      <datapoint name="BidCos-RF.OEQ0000001:4.BATTERY_STATE" type="BATTERY_STATE" ise_id="1009" value="-3" valuetype="4" valueunit="V" timestamp="1700000000" operations="5"/>
    </channel>
  </device>
  <device name="Window Contact" ise_id="2000" unreach="false" config_pending="false">
    <channel name="Window Contact:1" ise_id="2001">
      <datapoint name="BidCos-RF.NEQ0000002:1.STATE" type="STATE" ise_id="2002" value="true" valuetype="2" valueunit="" timestamp="1700000000" operations="5"/>
    </channel>
  </device>
</stateList>`

	SysvarListXML = `<?xml version="1.0" encoding="ISO-8859-1" ?>
<systemVariables>
  <systemVariable name="Presence" variable="true" value="true" value_list="" ise_id="4001" min="" max="" unit="" type="2" subtype="2" logged="false" visible="true" timestamp="1700000000" value_name_0="away" value_name_1="home"/>
  <systemVariable name="Outside Temperature" variable="12.250000" value="12.25" value_list="" ise_id="4002" min="-50" max="60" unit="C" type="4" subtype="0" logged="true" visible="true" timestamp="1700000000"/>
  <systemVariable name="Weather" variable="Sunny" value="Sunny" value_list="" ise_id="4003" min="" max="" unit="" type="20" subtype="11" logged="false" visible="true" timestamp="1700000000"/>
  <systemVariable name="Alarm Zone" variable="1" value="1" value_list="off;armed;triggered" ise_id="4004" min="" max="" unit="" type="16" subtype="29" logged="false" visible="true" timestamp="1700000000"/>
  <systemVariable name="Unset" ise_id="4005" value_list="" unit="" type="20" subtype="11" timestamp="0"/>
  <systemVariable name="Blank" variable="" value="" value_list="" ise_id="4006" unit="" type="20" subtype="11" timestamp="0"/>
</systemVariables>`

	RSSIListXML = `<?xml version="1.0" encoding="ISO-8859-1" ?>
<rssiList>
  <rssi device="BidCoS-RF" rx="65536" tx="-56"/>
  <rssi device="NEQ0000002" rx="-65" tx="-70"/>
</rssiList>`
)
